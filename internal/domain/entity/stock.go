package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa el snapshot de existencias de un producto en una sucursal.
// A lo sumo un registro por (ProductID, BranchID); se actualiza siempre vía upsert.
// Es derivable del historial de movimientos; la reconciliación lo recalcula cuando difiere.
type Stock struct {
	ProductID        string
	BranchID         string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	LastMovementDate *time.Time
	UpdatedAt        time.Time
}
