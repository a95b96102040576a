package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
// TaxRate es la tasa de ITBIS (0, 0.16 o 0.18).
type CreateProductRequest struct {
	Code               string          `json:"code" validate:"required,min=1,max=50"`
	Name               string          `json:"name" validate:"required,min=1,max=200"`
	Description        string          `json:"description" validate:"omitempty,max=500"`
	Price              decimal.Decimal `json:"price"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	IsInventoryTracked bool            `json:"is_inventory_tracked"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name               string           `json:"name" validate:"omitempty,min=1,max=200"`
	Description        string           `json:"description" validate:"omitempty,max=500"`
	Price              *decimal.Decimal `json:"price"`
	TaxRate            *decimal.Decimal `json:"tax_rate"`
	IsInventoryTracked *bool            `json:"is_inventory_tracked"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID                 string          `json:"id"`
	OrganizationID     string          `json:"organization_id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	Price              decimal.Decimal `json:"price"`
	Cost               decimal.Decimal `json:"cost"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	IsInventoryTracked bool            `json:"is_inventory_tracked"`
	CreatedAt          time.Time       `json:"created_at"`
}
