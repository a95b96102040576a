package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Para IN/OUT/ADJUSTMENT usar branch_id; para TRANSFER usar from_branch_id y to_branch_id.
type RegisterMovementRequest struct {
	ProductID    string           `json:"product_id" validate:"required,uuid"`
	BranchID     string           `json:"branch_id" validate:"omitempty,uuid"`
	FromBranchID string           `json:"from_branch_id" validate:"omitempty,uuid"`
	ToBranchID   string           `json:"to_branch_id" validate:"omitempty,uuid"`
	Type         string           `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT TRANSFER"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	Notes        string           `json:"notes" validate:"omitempty,max=500"`
}

// StockResponse snapshot de stock en respuestas.
type StockResponse struct {
	ProductID        string          `json:"product_id"`
	BranchID         string          `json:"branch_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity"`
	LastMovementDate *time.Time      `json:"last_movement_date,omitempty"`
}

// MovementResponse movimiento en respuestas; incluye la cadena previous/new
// que usa la reconciliación.
type MovementResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	BranchID         string          `json:"branch_id"`
	Type             string          `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	ReferenceType    string          `json:"reference_type,omitempty"`
	ReferenceID      string          `json:"reference_id,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	MovementDate     time.Time       `json:"movement_date"`
	CreatedBy        string          `json:"created_by,omitempty"`
}
