package dto

import "github.com/shopspring/decimal"

// DocumentItemRequest línea de factura o cotización.
// Si unit_price va en cero se usa el precio de lista del producto.
type DocumentItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// BranchID: sucursal de la cual se descuenta el inventario.
type CreateInvoiceRequest struct {
	ClientID string                `json:"client_id" validate:"required,uuid"`
	BranchID string                `json:"branch_id" validate:"required,uuid"`
	Notes    string                `json:"notes" validate:"omitempty,max=500"`
	Items    []DocumentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceResponse factura con detalle.
type InvoiceResponse struct {
	ID             string                  `json:"id"`
	OrganizationID string                  `json:"organization_id"`
	BranchID       string                  `json:"branch_id"`
	ClientID       string                  `json:"client_id"`
	ClientName     string                  `json:"client_name,omitempty"`
	Number         string                  `json:"number"`
	Date           string                  `json:"date"`
	Status         string                  `json:"status"`
	Subtotal       decimal.Decimal         `json:"subtotal"`
	TaxTotal       decimal.Decimal         `json:"tax_total"`
	Total          decimal.Decimal         `json:"total"`
	Notes          string                  `json:"notes,omitempty"`
	Details        []InvoiceDetailResponse `json:"details"`
}

// InvoiceDetailResponse línea de detalle en la respuesta.
type InvoiceDetailResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CreateQuoteRequest body para POST /api/quotes.
type CreateQuoteRequest struct {
	ClientID string                `json:"client_id" validate:"required,uuid"`
	BranchID string                `json:"branch_id" validate:"required,uuid"`
	Notes    string                `json:"notes" validate:"omitempty,max=500"`
	Items    []DocumentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateQuoteStatusRequest body para PATCH /api/quotes/:id/status.
// El estado converted solo lo asigna la conversión a factura.
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent accepted rejected"`
}

// QuoteResponse cotización con detalle.
type QuoteResponse struct {
	ID                 string                  `json:"id"`
	OrganizationID     string                  `json:"organization_id"`
	BranchID           string                  `json:"branch_id"`
	ClientID           string                  `json:"client_id"`
	ClientName         string                  `json:"client_name,omitempty"`
	Number             string                  `json:"number"`
	Date               string                  `json:"date"`
	Status             string                  `json:"status"`
	Subtotal           decimal.Decimal         `json:"subtotal"`
	TaxTotal           decimal.Decimal         `json:"tax_total"`
	Total              decimal.Decimal         `json:"total"`
	ConvertedInvoiceID string                  `json:"converted_invoice_id,omitempty"`
	Details            []InvoiceDetailResponse `json:"details"`
}
