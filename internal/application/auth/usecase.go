package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
	"github.com/Almanzar001/FacturaSaasfn-sub001/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo         repository.UserRepository
	organizationRepo repository.OrganizationRepository
	settingsRepo     repository.OrganizationSettingsRepository
	jwtCfg           JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	organizationRepo repository.OrganizationRepository,
	settingsRepo repository.OrganizationSettingsRepository,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:         userRepo,
		organizationRepo: organizationRepo,
		settingsRepo:     settingsRepo,
		jwtCfg:           jwtCfg,
	}
}

// Register crea la organización, su configuración de inventario por defecto y el
// primer usuario con rol admin. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	existing, _ := uc.userRepo.GetByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      in.OrganizationName,
		RNC:       in.RNC,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.organizationRepo.Create(org); err != nil {
		return nil, err
	}
	// Inventario habilitado por defecto; el descuento automático se activa explícitamente.
	if err := uc.settingsRepo.Upsert(&entity.OrganizationSettings{
		OrganizationID:   org.ID,
		InventoryEnabled: true,
		UpdatedAt:        now,
	}); err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		Email:          in.Email,
		PasswordHash:   string(hash),
		Name:           in.Name,
		Role:           entity.RoleAdmin,
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.OrganizationID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		BranchID:       u.BranchID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		Status:         u.Status,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
