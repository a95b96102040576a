package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/billing"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
)

// InvoiceHandler maneja las peticiones HTTP de facturas (protegido).
type InvoiceHandler struct {
	invoiceUC *billing.CreateInvoiceUseCase
	pdfUC     *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoiceUC *billing.CreateInvoiceUseCase, pdfUC *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC, pdfUC: pdfUC}
}

// Create godoc
// @Summary Emitir factura
// @Description Emite una factura; si el inventario automático está activo descuenta stock en la misma transacción
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body dto.CreateInvoiceRequest true "Factura"
// @Success 201 {object} dto.InvoiceResponse
// @Router /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	organizationID, userID, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.invoiceUC.CreateInvoice(c.Context(), organizationID, userID, in)
	if err != nil {
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para emitir la factura"})
		}
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene una factura con sus detalles.
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.invoiceUC.GetInvoice(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List lista facturas con paginación.
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	page.DefaultPage()
	out, err := h.invoiceUC.ListInvoices(c.Context(), organizationID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF genera y descarga el PDF de una factura.
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	pdfBytes, filename, err := h.pdfUC.DownloadInvoicePDF(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
