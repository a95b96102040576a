package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

type billingStore struct {
	clients  map[string]*entity.Client
	branches map[string]*entity.Branch
	products map[string]*entity.Product
	settings *entity.OrganizationSettings
	invoices map[string]*entity.Invoice
	details  []*entity.InvoiceDetail
	quotes   map[string]*entity.Quote
	qdetails []*entity.QuoteDetail

	deductions []string // productIDs descontados
	deductErr  error
}

func newBillingStore() *billingStore {
	return &billingStore{
		clients:  make(map[string]*entity.Client),
		branches: make(map[string]*entity.Branch),
		products: make(map[string]*entity.Product),
		invoices: make(map[string]*entity.Invoice),
		quotes:   make(map[string]*entity.Quote),
	}
}

type bClientRepo struct{ s *billingStore }

func (r *bClientRepo) Create(*entity.Client) error { return nil }
func (r *bClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.s.clients[id], nil
}
func (r *bClientRepo) Update(*entity.Client) error { return nil }
func (r *bClientRepo) ListByOrganization(string, string, int, int) ([]*entity.Client, error) {
	return nil, nil
}
func (r *bClientRepo) Delete(string) error { return nil }

type bBranchRepo struct{ s *billingStore }

func (r *bBranchRepo) Create(*entity.Branch) error { return nil }
func (r *bBranchRepo) GetByID(id string) (*entity.Branch, error) {
	return r.s.branches[id], nil
}
func (r *bBranchRepo) Update(*entity.Branch) error                         { return nil }
func (r *bBranchRepo) ListByOrganization(string) ([]*entity.Branch, error) { return nil, nil }
func (r *bBranchRepo) Delete(string) error                                 { return nil }

type bProductRepo struct{ s *billingStore }

func (r *bProductRepo) Create(*entity.Product) error { return nil }
func (r *bProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *bProductRepo) GetByCode(string, string) (*entity.Product, error) { return nil, nil }
func (r *bProductRepo) Update(*entity.Product) error                      { return nil }
func (r *bProductRepo) UpdateCost(string, decimal.Decimal) error          { return nil }
func (r *bProductRepo) ListByOrganization(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *bProductRepo) ListTrackedByOrganization(string) ([]*entity.Product, error) { return nil, nil }
func (r *bProductRepo) Delete(string) error                                         { return nil }

type bSettingsRepo struct{ s *billingStore }

func (r *bSettingsRepo) Get(string) (*entity.OrganizationSettings, error) { return r.s.settings, nil }
func (r *bSettingsRepo) Upsert(*entity.OrganizationSettings) error        { return nil }

type bInvoiceRepo struct{ s *billingStore }

func (r *bInvoiceRepo) Create(inv *entity.Invoice) error {
	r.s.invoices[inv.ID] = inv
	return nil
}
func (r *bInvoiceRepo) CreateDetail(d *entity.InvoiceDetail) error {
	r.s.details = append(r.s.details, d)
	return nil
}
func (r *bInvoiceRepo) GetByID(id string) (*entity.Invoice, error) { return r.s.invoices[id], nil }
func (r *bInvoiceRepo) GetDetailsByInvoiceID(invoiceID string) ([]*entity.InvoiceDetail, error) {
	var out []*entity.InvoiceDetail
	for _, d := range r.s.details {
		if d.InvoiceID == invoiceID {
			out = append(out, d)
		}
	}
	return out, nil
}
func (r *bInvoiceRepo) ListByOrganization(string, int, int) ([]*entity.Invoice, error) {
	return nil, nil
}
func (r *bInvoiceRepo) NextNumber(string) (string, error) {
	return fmt.Sprintf("%08d", len(r.s.invoices)+1), nil
}

type bQuoteRepo struct{ s *billingStore }

func (r *bQuoteRepo) Create(q *entity.Quote) error { r.s.quotes[q.ID] = q; return nil }
func (r *bQuoteRepo) CreateDetail(d *entity.QuoteDetail) error {
	r.s.qdetails = append(r.s.qdetails, d)
	return nil
}
func (r *bQuoteRepo) GetByID(id string) (*entity.Quote, error) { return r.s.quotes[id], nil }
func (r *bQuoteRepo) GetDetailsByQuoteID(quoteID string) ([]*entity.QuoteDetail, error) {
	var out []*entity.QuoteDetail
	for _, d := range r.s.qdetails {
		if d.QuoteID == quoteID {
			out = append(out, d)
		}
	}
	return out, nil
}
func (r *bQuoteRepo) ListByOrganization(string, int, int) ([]*entity.Quote, error) { return nil, nil }
func (r *bQuoteRepo) MarkConverted(id, invoiceID string) error {
	q := r.s.quotes[id]
	q.Status = entity.QuoteStatusConverted
	q.ConvertedInvoiceID = invoiceID
	return nil
}
func (r *bQuoteRepo) UpdateStatus(id, status string) error {
	r.s.quotes[id].Status = status
	return nil
}
func (r *bQuoteRepo) Delete(string) error { return nil }

type bTxRunner struct{ s *billingStore }

func (r *bTxRunner) RunBilling(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	quoteRepo repository.QuoteRepository,
) error) error {
	return fn(nil, nil, &bProductRepo{r.s}, &bInvoiceRepo{r.s}, &bQuoteRepo{r.s})
}

type fakeDeductor struct{ s *billingStore }

func (d *fakeDeductor) RegisterOUTInTx(
	_ context.Context,
	_ repository.InventoryMovementRepository,
	_ repository.StockRepository,
	_, productID, _, _ string,
	_ decimal.Decimal,
	_ time.Time,
	_ string,
) error {
	if d.s.deductErr != nil {
		return d.s.deductErr
	}
	d.s.deductions = append(d.s.deductions, productID)
	return nil
}

func seedBilling(s *billingStore) {
	s.clients["c1"] = &entity.Client{ID: "c1", OrganizationID: "org-1", Name: "Ferretería El Progreso"}
	s.branches["b1"] = &entity.Branch{ID: "b1", OrganizationID: "org-1", IsActive: true}
	s.products["p1"] = &entity.Product{
		ID: "p1", OrganizationID: "org-1", Name: "Cemento gris",
		Price: decimal.NewFromInt(500), TaxRate: decimal.NewFromFloat(0.18), IsInventoryTracked: true,
	}
	s.products["p2"] = &entity.Product{
		ID: "p2", OrganizationID: "org-1", Name: "Asesoría técnica",
		Price: decimal.NewFromInt(1000), TaxRate: decimal.Zero, IsInventoryTracked: false,
	}
	s.settings = &entity.OrganizationSettings{
		OrganizationID: "org-1", InventoryEnabled: true, AutoDeductEnabled: true,
	}
}

func newInvoiceUseCase(s *billingStore) *CreateInvoiceUseCase {
	return NewCreateInvoiceUseCase(
		&bTxRunner{s}, &fakeDeductor{s},
		&bClientRepo{s}, &bBranchRepo{s}, &bProductRepo{s}, &bInvoiceRepo{s}, &bSettingsRepo{s},
	)
}

func TestCreateInvoice(t *testing.T) {
	t.Run("CalculaTotalesConITBISYDescuentaInventario", func(t *testing.T) {
		s := newBillingStore()
		seedBilling(s)

		resp, err := newInvoiceUseCase(s).CreateInvoice(context.Background(), "org-1", "u1", dto.CreateInvoiceRequest{
			ClientID: "c1", BranchID: "b1",
			Items: []dto.DocumentItemRequest{
				{ProductID: "p1", Quantity: decimal.NewFromInt(2)}, // 2 x 500, ITBIS 18%
				{ProductID: "p2", Quantity: decimal.NewFromInt(1)}, // 1 x 1000, exento
			},
		})
		require.NoError(t, err)

		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(2000)))
		assert.True(t, resp.TaxTotal.Equal(decimal.NewFromInt(180)))
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(2180)))
		assert.Equal(t, entity.InvoiceStatusIssued, resp.Status)
		assert.Len(t, resp.Details, 2)

		// Solo el producto con control de inventario genera salida.
		assert.Equal(t, []string{"p1"}, s.deductions)
	})

	t.Run("SinAutoDeductNoTocaInventario", func(t *testing.T) {
		s := newBillingStore()
		seedBilling(s)
		s.settings.AutoDeductEnabled = false

		_, err := newInvoiceUseCase(s).CreateInvoice(context.Background(), "org-1", "u1", dto.CreateInvoiceRequest{
			ClientID: "c1", BranchID: "b1",
			Items: []dto.DocumentItemRequest{{ProductID: "p1", Quantity: decimal.NewFromInt(2)}},
		})
		require.NoError(t, err)
		assert.Empty(t, s.deductions)
	})

	t.Run("SinStockNoSeCreaLaFactura", func(t *testing.T) {
		s := newBillingStore()
		seedBilling(s)
		s.deductErr = domain.ErrInsufficientStock

		_, err := newInvoiceUseCase(s).CreateInvoice(context.Background(), "org-1", "u1", dto.CreateInvoiceRequest{
			ClientID: "c1", BranchID: "b1",
			Items: []dto.DocumentItemRequest{{ProductID: "p1", Quantity: decimal.NewFromInt(2)}},
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Empty(t, s.invoices)
	})

	t.Run("ClienteDeOtraOrganizacionEsForbidden", func(t *testing.T) {
		s := newBillingStore()
		seedBilling(s)
		s.clients["c1"].OrganizationID = "org-2"

		_, err := newInvoiceUseCase(s).CreateInvoice(context.Background(), "org-1", "u1", dto.CreateInvoiceRequest{
			ClientID: "c1", BranchID: "b1",
			Items: []dto.DocumentItemRequest{{ProductID: "p1", Quantity: decimal.NewFromInt(1)}},
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestQuoteConvertToInvoice(t *testing.T) {
	newQuoteUC := func(s *billingStore) *QuoteUseCase {
		return NewQuoteUseCase(&bQuoteRepo{s}, &bClientRepo{s}, &bBranchRepo{s}, &bProductRepo{s}, newInvoiceUseCase(s))
	}

	t.Run("GeneraFacturaYMarcaConvertida", func(t *testing.T) {
		s := newBillingStore()
		seedBilling(s)
		uc := newQuoteUC(s)

		quote, err := uc.CreateQuote(context.Background(), "org-1", "u1", dto.CreateQuoteRequest{
			ClientID: "c1", BranchID: "b1",
			Items: []dto.DocumentItemRequest{{ProductID: "p1", Quantity: decimal.NewFromInt(3)}},
		})
		require.NoError(t, err)
		assert.Empty(t, s.deductions, "cotizar no compromete stock")

		invoice, err := uc.ConvertToInvoice(context.Background(), "org-1", "u1", quote.ID)
		require.NoError(t, err)

		assert.Equal(t, []string{"p1"}, s.deductions)
		q := s.quotes[quote.ID]
		assert.Equal(t, entity.QuoteStatusConverted, q.Status)
		assert.Equal(t, invoice.ID, q.ConvertedInvoiceID)
	})

	t.Run("ConvertirDosVecesFalla", func(t *testing.T) {
		s := newBillingStore()
		seedBilling(s)
		uc := newQuoteUC(s)

		quote, err := uc.CreateQuote(context.Background(), "org-1", "u1", dto.CreateQuoteRequest{
			ClientID: "c1", BranchID: "b1",
			Items: []dto.DocumentItemRequest{{ProductID: "p1", Quantity: decimal.NewFromInt(1)}},
		})
		require.NoError(t, err)

		_, err = uc.ConvertToInvoice(context.Background(), "org-1", "u1", quote.ID)
		require.NoError(t, err)
		_, err = uc.ConvertToInvoice(context.Background(), "org-1", "u1", quote.ID)
		assert.ErrorIs(t, err, domain.ErrQuoteAlreadyConverted)
	})
}
