package usecase

import (
	"time"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

// OrganizationUseCase aplica reglas de negocio para la organización y su
// configuración de inventario.
type OrganizationUseCase struct {
	repo         repository.OrganizationRepository
	settingsRepo repository.OrganizationSettingsRepository
}

// NewOrganizationUseCase construye el caso de uso con los puertos de persistencia.
func NewOrganizationUseCase(repo repository.OrganizationRepository, settingsRepo repository.OrganizationSettingsRepository) *OrganizationUseCase {
	return &OrganizationUseCase{repo: repo, settingsRepo: settingsRepo}
}

// GetByID obtiene la organización.
func (uc *OrganizationUseCase) GetByID(id string) (*dto.OrganizationResponse, error) {
	org, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return entityToOrganizationResponse(org), nil
}

// Update actualiza los datos de la organización (solo campos enviados).
func (uc *OrganizationUseCase) Update(id string, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	org, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		org.Name = in.Name
	}
	if in.RNC != "" {
		org.RNC = in.RNC
	}
	if in.Address != "" {
		org.Address = in.Address
	}
	if in.Phone != "" {
		org.Phone = in.Phone
	}
	if in.Email != "" {
		org.Email = in.Email
	}
	org.UpdatedAt = time.Now()
	if err := uc.repo.Update(org); err != nil {
		return nil, err
	}
	return entityToOrganizationResponse(org), nil
}

// GetSettings obtiene la configuración de inventario; sin fila devuelve los
// valores por defecto (todo deshabilitado).
func (uc *OrganizationUseCase) GetSettings(organizationID string) (*dto.SettingsResponse, error) {
	settings, err := uc.settingsRepo.Get(organizationID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &dto.SettingsResponse{OrganizationID: organizationID}, nil
	}
	return &dto.SettingsResponse{
		OrganizationID:    settings.OrganizationID,
		InventoryEnabled:  settings.InventoryEnabled,
		AutoDeductEnabled: settings.AutoDeductEnabled,
		UpdatedAt:         settings.UpdatedAt,
	}, nil
}

// UpdateSettings actualiza las banderas enviadas y conserva las demás.
func (uc *OrganizationUseCase) UpdateSettings(organizationID string, in dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := uc.settingsRepo.Get(organizationID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &entity.OrganizationSettings{OrganizationID: organizationID}
	}
	if in.InventoryEnabled != nil {
		settings.InventoryEnabled = *in.InventoryEnabled
	}
	if in.AutoDeductEnabled != nil {
		settings.AutoDeductEnabled = *in.AutoDeductEnabled
	}
	settings.UpdatedAt = time.Now()
	if err := uc.settingsRepo.Upsert(settings); err != nil {
		return nil, err
	}
	return &dto.SettingsResponse{
		OrganizationID:    settings.OrganizationID,
		InventoryEnabled:  settings.InventoryEnabled,
		AutoDeductEnabled: settings.AutoDeductEnabled,
		UpdatedAt:         settings.UpdatedAt,
	}, nil
}

func entityToOrganizationResponse(o *entity.Organization) *dto.OrganizationResponse {
	return &dto.OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		RNC:       o.RNC,
		Address:   o.Address,
		Phone:     o.Phone,
		Email:     o.Email,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}
