package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o servicio de la organización.
// Solo los productos con IsInventoryTracked participan del control de stock por sucursal.
type Product struct {
	ID                 string
	OrganizationID     string
	Code               string // código único por organización
	Name               string
	Description        string
	Price              decimal.Decimal // precio de venta
	Cost               decimal.Decimal // costo promedio ponderado (inicia en 0)
	TaxRate            decimal.Decimal // ITBIS: 0, 0.16, 0.18
	IsInventoryTracked bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
