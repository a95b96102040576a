package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditResult es el veredicto de la auditoría para un par producto+sucursal.
type AuditResult struct {
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	BranchID        string          `json:"branchId"`
	BranchName      string          `json:"branchName"`
	CurrentStock    decimal.Decimal `json:"currentStock"`
	CalculatedStock decimal.Decimal `json:"calculatedStock"`
	Difference      decimal.Decimal `json:"difference"`
	MovementCount   int             `json:"movementCount"`
	HasDiscrepancy  bool            `json:"hasDiscrepancy"`
	Warnings        []string        `json:"warnings,omitempty"`
}

// AuditSummary agrega los resultados de una corrida de auditoría.
// TotalProducts cuenta todos los pares examinados; Results omite los pares
// sin movimientos y sin stock para no inflar la respuesta.
type AuditSummary struct {
	OrganizationID string        `json:"organizationId"`
	TotalProducts  int           `json:"totalProducts"`
	Discrepancies  int           `json:"discrepancies"`
	TotalMovements int           `json:"totalMovements"`
	Results        []AuditResult `json:"results"`
	GeneratedAt    time.Time     `json:"generatedAt"`
}

// FixedItem describe una corrección aplicada por FixDiscrepancies.
type FixedItem struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	BranchID      string          `json:"branchId"`
	BranchName    string          `json:"branchName"`
	PreviousStock decimal.Decimal `json:"previousStock"`
	NewStock      decimal.Decimal `json:"newStock"`
}

// FixReport resume una corrida de corrección. Errors acumula las fallas por
// ítem; una falla no detiene el resto de la corrida.
type FixReport struct {
	OrganizationID string      `json:"organizationId"`
	Fixed          int         `json:"fixed"`
	Items          []FixedItem `json:"items"`
	Errors         []string    `json:"errors,omitempty"`
	GeneratedAt    time.Time   `json:"generatedAt"`
}

// RecalcResult es el resultado del recálculo para un par con historial.
type RecalcResult struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	BranchID      string          `json:"branchId"`
	BranchName    string          `json:"branchName"`
	OldStock      decimal.Decimal `json:"oldStock"`
	NewStock      decimal.Decimal `json:"newStock"`
	MovementCount int             `json:"movementCount"`
	Corrected     bool            `json:"corrected"`
	Error         string          `json:"error,omitempty"`
}

// RecalcSummary agrega los resultados de una corrida de recálculo.
type RecalcSummary struct {
	OrganizationID string         `json:"organizationId"`
	Examined       int            `json:"examined"`
	Corrected      int            `json:"corrected"`
	Failed         int            `json:"failed"`
	Results        []RecalcResult `json:"results"`
	GeneratedAt    time.Time      `json:"generatedAt"`
}
