package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusIssued    = "issued"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice representa la cabecera de una factura.
type Invoice struct {
	ID             string
	OrganizationID string
	BranchID       string
	ClientID       string
	Number         string
	Date           time.Time
	Status         string
	Subtotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	Total          decimal.Decimal
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InvoiceDetail representa una línea de detalle de una factura.
type InvoiceDetail struct {
	ID          string
	InvoiceID   string
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
}
