package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cotización.
const (
	QuoteStatusDraft     = "draft"
	QuoteStatusSent      = "sent"
	QuoteStatusAccepted  = "accepted"
	QuoteStatusRejected  = "rejected"
	QuoteStatusConverted = "converted" // ya generó factura
)

// Quote representa una cotización; puede convertirse en factura.
type Quote struct {
	ID                 string
	OrganizationID     string
	BranchID           string
	ClientID           string
	Number             string
	Date               time.Time
	Status             string
	Subtotal           decimal.Decimal
	TaxTotal           decimal.Decimal
	Total              decimal.Decimal
	Notes              string
	ConvertedInvoiceID string // ID de la factura generada (vacío si no convertida)
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// QuoteDetail representa una línea de detalle de una cotización.
type QuoteDetail struct {
	ID        string
	QuoteID   string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
	Subtotal  decimal.Decimal
}
