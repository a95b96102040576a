package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// repos de inventario y facturación.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
		quoteRepo repository.QuoteRepository,
	) error) error
}

// InventoryDeductor integra facturación con inventario. RegisterOUTInTx ejecuta
// una salida (OUT) usando los repositorios del caller (misma transacción); si
// retorna error (ej: ErrInsufficientStock) el caller hace rollback.
type InventoryDeductor interface {
	RegisterOUTInTx(
		ctx context.Context,
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		organizationID, productID, branchID, userID string,
		quantity decimal.Decimal,
		now time.Time,
		referenceID string, // ID de la factura
	) error
}

// InvoicePDFGenerator genera el PDF de una factura.
type InvoicePDFGenerator interface {
	Generate(data *InvoicePDFData) ([]byte, error)
}

// InvoicePDFData datos ya resueltos para el PDF (sin acceso a repos).
type InvoicePDFData struct {
	OrganizationName string
	OrganizationRNC  string
	ClientName       string
	ClientRNC        string
	Number           string
	Date             time.Time
	Subtotal         decimal.Decimal
	TaxTotal         decimal.Decimal
	Total            decimal.Decimal
	Notes            string
	Lines            []InvoicePDFLine
}

// InvoicePDFLine línea del PDF.
type InvoicePDFLine struct {
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
