package repository

import (
	"github.com/shopspring/decimal"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(organizationID, code string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateCost(productID string, cost decimal.Decimal) error
	ListByOrganization(organizationID string, limit, offset int) ([]*entity.Product, error)
	// ListTrackedByOrganization devuelve solo productos con control de inventario
	// (insumo de la reconciliación; sin paginar).
	ListTrackedByOrganization(organizationID string) ([]*entity.Product, error)
	Delete(id string) error
}
