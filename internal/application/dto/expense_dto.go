package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseRequest body para POST /api/expenses.
type CreateExpenseRequest struct {
	BranchID    string          `json:"branch_id" validate:"omitempty,uuid"`
	Category    string          `json:"category" validate:"required,min=1,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateExpenseRequest body para PUT /api/expenses/:id.
type UpdateExpenseRequest struct {
	Category    string           `json:"category" validate:"omitempty,min=1,max=100"`
	Description string           `json:"description" validate:"omitempty,max=500"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        string           `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ExpenseResponse gasto en respuestas.
type ExpenseResponse struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	BranchID       string          `json:"branch_id,omitempty"`
	Category       string          `json:"category"`
	Description    string          `json:"description,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	CreatedAt      time.Time       `json:"created_at"`
}
