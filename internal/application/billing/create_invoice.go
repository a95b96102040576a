package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

// CreateInvoiceUseCase crea una factura y, si la organización tiene habilitado
// el descuento automático, descuenta el inventario en la misma transacción.
type CreateInvoiceUseCase struct {
	txRunner     BillingTxRunner
	inventoryUC  InventoryDeductor
	clientRepo   repository.ClientRepository
	branchRepo   repository.BranchRepository
	productRepo  repository.ProductRepository
	invoiceRepo  repository.InvoiceRepository
	settingsRepo repository.OrganizationSettingsRepository
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner BillingTxRunner,
	inventoryUC InventoryDeductor,
	clientRepo repository.ClientRepository,
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	settingsRepo repository.OrganizationSettingsRepository,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:     txRunner,
		inventoryUC:  inventoryUC,
		clientRepo:   clientRepo,
		branchRepo:   branchRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
	}
}

// taxRateDecimal normaliza tasas guardadas como porcentaje (18) o fracción (0.18).
func taxRateDecimal(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}

// CreateInvoice crea la factura con sus detalles y registra salidas de inventario
// por cada línea de producto con control de stock (según organization_settings).
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, organizationID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ClientID == "" || in.BranchID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Validar cliente y que sea de la organización
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	if client.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}

	// Validar sucursal
	branch, _ := uc.branchRepo.GetByID(in.BranchID)
	if branch == nil || branch.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}

	// Validar productos y precios (fuera de la tx, solo lectura)
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
		if item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.IsZero() {
			in.Items[i].UnitPrice = product.Price
		}
	}

	// Descuento automático de inventario según la configuración de la organización.
	// Sin fila de configuración el descuento queda deshabilitado.
	autoDeduct := false
	if settings, err := uc.settingsRepo.Get(organizationID); err == nil && settings != nil {
		autoDeduct = settings.InventoryEnabled && settings.AutoDeductEnabled
	}

	now := time.Now()
	invoiceID := uuid.New().String() // referencia en inventory_movements.reference_id
	var inv *entity.Invoice
	var details []*entity.InvoiceDetail

	err = uc.txRunner.RunBilling(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.QuoteRepository,
	) error {
		// 1) Por cada línea con control de inventario, salida OUT referenciando la
		// factura. Si inventario retorna error (ej: sin stock) se hace rollback.
		if autoDeduct {
			for _, item := range in.Items {
				product := productsByID[item.ProductID]
				if !product.IsInventoryTracked {
					continue
				}
				if err := uc.inventoryUC.RegisterOUTInTx(
					ctx, movRepo, stockRepo,
					organizationID, item.ProductID, in.BranchID, userID,
					item.Quantity, now, invoiceID,
				); err != nil {
					return err
				}
			}
		}

		// 2) Totales con ITBIS por producto
		var subtotal, taxTotal decimal.Decimal
		for _, item := range in.Items {
			product := productsByID[item.ProductID]
			lineSubtotal := item.Quantity.Mul(item.UnitPrice)
			rate := taxRateDecimal(product.TaxRate)
			subtotal = subtotal.Add(lineSubtotal)
			taxTotal = taxTotal.Add(lineSubtotal.Mul(rate))
		}
		total := subtotal.Add(taxTotal)

		// 3) Consecutivo de factura por organización
		number, err := invoiceRepo.NextNumber(organizationID)
		if err != nil {
			return err
		}

		// 4) Cabecera y detalles
		inv = &entity.Invoice{
			ID:             invoiceID,
			OrganizationID: organizationID,
			BranchID:       in.BranchID,
			ClientID:       in.ClientID,
			Number:         number,
			Date:           now,
			Status:         entity.InvoiceStatusIssued,
			Subtotal:       subtotal,
			TaxTotal:       taxTotal,
			Total:          total,
			Notes:          in.Notes,
			CreatedBy:      userID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, item := range in.Items {
			product := productsByID[item.ProductID]
			detail := &entity.InvoiceDetail{
				ID:          uuid.New().String(),
				InvoiceID:   inv.ID,
				ProductID:   item.ProductID,
				Description: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TaxRate:     taxRateDecimal(product.TaxRate),
				Subtotal:    item.Quantity.Mul(item.UnitPrice),
			}
			if err := invoiceRepo.CreateDetail(detail); err != nil {
				return err
			}
			details = append(details, detail)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv, client.Name, details), nil
}

func toInvoiceResponse(inv *entity.Invoice, clientName string, details []*entity.InvoiceDetail) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:             inv.ID,
		OrganizationID: inv.OrganizationID,
		BranchID:       inv.BranchID,
		ClientID:       inv.ClientID,
		ClientName:     clientName,
		Number:         inv.Number,
		Date:           inv.Date.Format("2006-01-02"),
		Status:         inv.Status,
		Subtotal:       inv.Subtotal,
		TaxTotal:       inv.TaxTotal,
		Total:          inv.Total,
		Notes:          inv.Notes,
		Details:        make([]dto.InvoiceDetailResponse, 0, len(details)),
	}
	for _, d := range details {
		resp.Details = append(resp.Details, dto.InvoiceDetailResponse{
			ID:          d.ID,
			ProductID:   d.ProductID,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			TaxRate:     d.TaxRate,
			Subtotal:    d.Subtotal,
		})
	}
	return resp
}

// GetInvoice obtiene una factura por ID con su detalle completo.
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, organizationID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	details, err := uc.invoiceRepo.GetDetailsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	client, _ := uc.clientRepo.GetByID(inv.ClientID)
	clientName := ""
	if client != nil {
		clientName = client.Name
	}
	return toInvoiceResponse(inv, clientName, details), nil
}

// ListInvoices lista facturas de la organización (cabeceras, sin detalles).
func (uc *CreateInvoiceUseCase) ListInvoices(ctx context.Context, organizationID string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	invoices, err := uc.invoiceRepo.ListByOrganization(organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv, "", nil))
	}
	return out, nil
}
