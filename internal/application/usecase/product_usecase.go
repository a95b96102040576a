package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

// ProductUseCase aplica reglas de negocio para productos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso con el puerto de persistencia.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto. Devuelve domain.ErrDuplicate si el código ya existe
// en la organización. El costo promedio inicia en cero y lo actualizan las entradas.
func (uc *ProductUseCase) Create(organizationID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Price.LessThan(decimal.Zero) || in.TaxRate.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCode(organizationID, in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:                 uuid.New().String(),
		OrganizationID:     organizationID,
		Code:               in.Code,
		Name:               in.Name,
		Description:        in.Description,
		Price:              in.Price,
		Cost:               decimal.Zero,
		TaxRate:            in.TaxRate,
		IsInventoryTracked: in.IsInventoryTracked,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

// GetByID obtiene un producto verificando la organización.
func (uc *ProductUseCase) GetByID(organizationID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return productToResponse(product), nil
}

// Update actualiza un producto (solo campos enviados). El costo no se edita por
// esta vía: lo calcula el motor de inventario con cada entrada.
func (uc *ProductUseCase) Update(organizationID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.TaxRate != nil {
		if in.TaxRate.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.TaxRate = *in.TaxRate
	}
	if in.IsInventoryTracked != nil {
		product.IsInventoryTracked = *in.IsInventoryTracked
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(organizationID string, limit, offset int) ([]*dto.ProductResponse, error) {
	products, err := uc.repo.ListByOrganization(organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productToResponse(p))
	}
	return out, nil
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(organizationID, id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil || product.OrganizationID != organizationID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func productToResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                 p.ID,
		OrganizationID:     p.OrganizationID,
		Code:               p.Code,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		Cost:               p.Cost,
		TaxRate:            p.TaxRate,
		IsInventoryTracked: p.IsInventoryTracked,
		CreatedAt:          p.CreatedAt,
	}
}
