package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense representa un gasto operativo de la organización.
type Expense struct {
	ID             string
	OrganizationID string
	BranchID       string // vacío = gasto general
	Category       string
	Description    string
	Amount         decimal.Decimal
	Date           time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
