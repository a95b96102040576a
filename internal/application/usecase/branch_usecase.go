package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

// BranchUseCase aplica reglas de negocio para sucursales.
type BranchUseCase struct {
	repo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso con el puerto de persistencia.
func NewBranchUseCase(repo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo}
}

// Create crea una sucursal activa.
func (uc *BranchUseCase) Create(organizationID string, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	now := time.Now()
	branch := &entity.Branch{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           in.Name,
		Address:        in.Address,
		Phone:          in.Phone,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(branch); err != nil {
		return nil, err
	}
	return entityToBranchResponse(branch), nil
}

// GetByID obtiene una sucursal verificando que pertenezca a la organización.
func (uc *BranchUseCase) GetByID(organizationID, id string) (*dto.BranchResponse, error) {
	branch, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return entityToBranchResponse(branch), nil
}

// Update actualiza una sucursal (solo campos enviados). Desactivar una sucursal
// no borra su historial de inventario; la auditoría la sigue cubriendo.
func (uc *BranchUseCase) Update(organizationID, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	branch, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		branch.Name = in.Name
	}
	if in.Address != "" {
		branch.Address = in.Address
	}
	if in.Phone != "" {
		branch.Phone = in.Phone
	}
	if in.IsActive != nil {
		branch.IsActive = *in.IsActive
	}
	branch.UpdatedAt = time.Now()
	if err := uc.repo.Update(branch); err != nil {
		return nil, err
	}
	return entityToBranchResponse(branch), nil
}

// List lista todas las sucursales de la organización.
func (uc *BranchUseCase) List(organizationID string) ([]*dto.BranchResponse, error) {
	branches, err := uc.repo.ListByOrganization(organizationID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, entityToBranchResponse(b))
	}
	return out, nil
}

// Delete elimina una sucursal.
func (uc *BranchUseCase) Delete(organizationID, id string) error {
	branch, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if branch == nil || branch.OrganizationID != organizationID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func entityToBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:             b.ID,
		OrganizationID: b.OrganizationID,
		Name:           b.Name,
		Address:        b.Address,
		Phone:          b.Phone,
		IsActive:       b.IsActive,
		CreatedAt:      b.CreatedAt,
	}
}
