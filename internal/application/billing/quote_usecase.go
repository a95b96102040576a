package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

// QuoteUseCase maneja cotizaciones: creación, consulta, estado y conversión a factura.
type QuoteUseCase struct {
	quoteRepo   repository.QuoteRepository
	clientRepo  repository.ClientRepository
	branchRepo  repository.BranchRepository
	productRepo repository.ProductRepository
	invoiceUC   *CreateInvoiceUseCase
}

// NewQuoteUseCase construye el caso de uso.
func NewQuoteUseCase(
	quoteRepo repository.QuoteRepository,
	clientRepo repository.ClientRepository,
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
	invoiceUC *CreateInvoiceUseCase,
) *QuoteUseCase {
	return &QuoteUseCase{
		quoteRepo:   quoteRepo,
		clientRepo:  clientRepo,
		branchRepo:  branchRepo,
		productRepo: productRepo,
		invoiceUC:   invoiceUC,
	}
}

// CreateQuote crea una cotización con sus detalles. No toca inventario: una
// cotización no compromete stock.
func (uc *QuoteUseCase) CreateQuote(ctx context.Context, organizationID, userID string, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	if in.ClientID == "" || in.BranchID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	if client.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	branch, _ := uc.branchRepo.GetByID(in.BranchID)
	if branch == nil || branch.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}

	productsByID := make(map[string]*entity.Product)
	for i := range in.Items {
		item := &in.Items[i]
		if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		if product.OrganizationID != organizationID {
			return nil, domain.ErrForbidden
		}
		productsByID[item.ProductID] = product
		if item.UnitPrice.IsZero() {
			in.Items[i].UnitPrice = product.Price
		}
	}

	var subtotal, taxTotal decimal.Decimal
	for _, item := range in.Items {
		product := productsByID[item.ProductID]
		lineSubtotal := item.Quantity.Mul(item.UnitPrice)
		subtotal = subtotal.Add(lineSubtotal)
		taxTotal = taxTotal.Add(lineSubtotal.Mul(taxRateDecimal(product.TaxRate)))
	}

	now := time.Now()
	quote := &entity.Quote{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		BranchID:       in.BranchID,
		ClientID:       in.ClientID,
		Number:         fmt.Sprintf("COT-%d", now.Unix()),
		Date:           now,
		Status:         entity.QuoteStatusDraft,
		Subtotal:       subtotal,
		TaxTotal:       taxTotal,
		Total:          subtotal.Add(taxTotal),
		Notes:          in.Notes,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.quoteRepo.Create(quote); err != nil {
		return nil, err
	}

	var details []*entity.QuoteDetail
	for _, item := range in.Items {
		product := productsByID[item.ProductID]
		detail := &entity.QuoteDetail{
			ID:        uuid.New().String(),
			QuoteID:   quote.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			TaxRate:   taxRateDecimal(product.TaxRate),
			Subtotal:  item.Quantity.Mul(item.UnitPrice),
		}
		if err := uc.quoteRepo.CreateDetail(detail); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	return toQuoteResponse(quote, client.Name, details), nil
}

// GetQuote obtiene una cotización con su detalle.
func (uc *QuoteUseCase) GetQuote(ctx context.Context, organizationID, id string) (*dto.QuoteResponse, error) {
	quote, err := uc.quoteRepo.GetByID(id)
	if err != nil || quote == nil {
		return nil, domain.ErrNotFound
	}
	if quote.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	details, err := uc.quoteRepo.GetDetailsByQuoteID(id)
	if err != nil {
		return nil, err
	}
	client, _ := uc.clientRepo.GetByID(quote.ClientID)
	clientName := ""
	if client != nil {
		clientName = client.Name
	}
	return toQuoteResponse(quote, clientName, details), nil
}

// ListQuotes lista cotizaciones de la organización.
func (uc *QuoteUseCase) ListQuotes(ctx context.Context, organizationID string, limit, offset int) ([]*dto.QuoteResponse, error) {
	quotes, err := uc.quoteRepo.ListByOrganization(organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, toQuoteResponse(q, "", nil))
	}
	return out, nil
}

// UpdateStatus cambia el estado de una cotización (sent, accepted, rejected).
// Una cotización convertida no admite cambios de estado.
func (uc *QuoteUseCase) UpdateStatus(ctx context.Context, organizationID, id, status string) error {
	quote, err := uc.quoteRepo.GetByID(id)
	if err != nil || quote == nil {
		return domain.ErrNotFound
	}
	if quote.OrganizationID != organizationID {
		return domain.ErrForbidden
	}
	if quote.Status == entity.QuoteStatusConverted {
		return domain.ErrQuoteAlreadyConverted
	}
	switch status {
	case entity.QuoteStatusSent, entity.QuoteStatusAccepted, entity.QuoteStatusRejected:
	default:
		return domain.ErrInvalidInput
	}
	return uc.quoteRepo.UpdateStatus(id, status)
}

// ConvertToInvoice genera una factura a partir de la cotización (mismos ítems y
// precios congelados) y la marca como convertida. La factura pasa por el flujo
// normal de CreateInvoice, incluido el descuento de inventario.
func (uc *QuoteUseCase) ConvertToInvoice(ctx context.Context, organizationID, userID, quoteID string) (*dto.InvoiceResponse, error) {
	quote, err := uc.quoteRepo.GetByID(quoteID)
	if err != nil || quote == nil {
		return nil, domain.ErrNotFound
	}
	if quote.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	if quote.Status == entity.QuoteStatusConverted {
		return nil, domain.ErrQuoteAlreadyConverted
	}
	details, err := uc.quoteRepo.GetDetailsByQuoteID(quoteID)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, domain.ErrInvalidInput
	}

	items := make([]dto.DocumentItemRequest, 0, len(details))
	for _, d := range details {
		items = append(items, dto.DocumentItemRequest{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
		})
	}

	invoice, err := uc.invoiceUC.CreateInvoice(ctx, organizationID, userID, dto.CreateInvoiceRequest{
		ClientID: quote.ClientID,
		BranchID: quote.BranchID,
		Notes:    fmt.Sprintf("Generada desde cotización %s", quote.Number),
		Items:    items,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.quoteRepo.MarkConverted(quoteID, invoice.ID); err != nil {
		return nil, fmt.Errorf("marcar cotización convertida: %w", err)
	}
	return invoice, nil
}

func toQuoteResponse(q *entity.Quote, clientName string, details []*entity.QuoteDetail) *dto.QuoteResponse {
	resp := &dto.QuoteResponse{
		ID:                 q.ID,
		OrganizationID:     q.OrganizationID,
		BranchID:           q.BranchID,
		ClientID:           q.ClientID,
		ClientName:         clientName,
		Number:             q.Number,
		Date:               q.Date.Format("2006-01-02"),
		Status:             q.Status,
		Subtotal:           q.Subtotal,
		TaxTotal:           q.TaxTotal,
		Total:              q.Total,
		ConvertedInvoiceID: q.ConvertedInvoiceID,
		Details:            make([]dto.InvoiceDetailResponse, 0, len(details)),
	}
	for _, d := range details {
		resp.Details = append(resp.Details, dto.InvoiceDetailResponse{
			ID:        d.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			TaxRate:   d.TaxRate,
			Subtotal:  d.Subtotal,
		})
	}
	return resp
}
