package billing

import (
	"context"
	"fmt"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
// Una factura cancelada no genera PDF.
type PDFUseCase struct {
	invoiceRepo      repository.InvoiceRepository
	organizationRepo repository.OrganizationRepository
	clientRepo       repository.ClientRepository
	productRepo      repository.ProductRepository
	generator        InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	organizationRepo repository.OrganizationRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:      invoiceRepo,
		organizationRepo: organizationRepo,
		clientRepo:       clientRepo,
		productRepo:      productRepo,
		generator:        generator,
	}
}

// DownloadInvoicePDF recupera todos los datos de la factura y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece a la organización del token.
//   - domain.ErrInvalidInput     si la factura está cancelada.
func (uc *PDFUseCase) DownloadInvoicePDF(
	ctx context.Context,
	organizationID, invoiceID string,
) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.OrganizationID != organizationID {
		return nil, "", domain.ErrForbidden
	}
	if inv.Status == entity.InvoiceStatusCancelled {
		return nil, "", fmt.Errorf("%w: la factura está cancelada", domain.ErrInvalidInput)
	}

	org, err := uc.organizationRepo.GetByID(organizationID)
	if err != nil || org == nil {
		return nil, "", fmt.Errorf("pdf: obtener organización: %w", err)
	}
	client, err := uc.clientRepo.GetByID(inv.ClientID)
	if err != nil || client == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	details, err := uc.invoiceRepo.GetDetailsByInvoiceID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener detalles: %w", err)
	}

	data := &InvoicePDFData{
		OrganizationName: org.Name,
		OrganizationRNC:  org.RNC,
		ClientName:       client.Name,
		ClientRNC:        client.RNC,
		Number:           inv.Number,
		Date:             inv.Date,
		Subtotal:         inv.Subtotal,
		TaxTotal:         inv.TaxTotal,
		Total:            inv.Total,
		Notes:            inv.Notes,
	}
	for _, d := range details {
		name := d.Description
		if name == "" {
			if p, _ := uc.productRepo.GetByID(d.ProductID); p != nil {
				name = p.Name
			}
		}
		data.Lines = append(data.Lines, InvoicePDFLine{
			ProductName: name,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal,
		})
	}

	pdfBytes, err = uc.generator.Generate(data)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura-%s.pdf", inv.Number), nil
}
