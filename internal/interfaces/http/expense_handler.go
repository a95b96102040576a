package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/usecase"
)

// ExpenseHandler maneja las peticiones HTTP de gastos (protegido).
type ExpenseHandler struct {
	uc *usecase.ExpenseUseCase
}

// NewExpenseHandler construye el handler.
func NewExpenseHandler(uc *usecase.ExpenseUseCase) *ExpenseHandler {
	return &ExpenseHandler{uc: uc}
}

// Create registra un gasto.
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	organizationID, userID, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.Create(organizationID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene un gasto.
func (h *ExpenseHandler) GetByID(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.GetByID(organizationID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update actualiza un gasto.
func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.Update(organizationID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List lista gastos con filtros opcionales de categoría y rango de fechas
// (from/to en formato YYYY-MM-DD).
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	page.DefaultPage()
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return invalidBody(c)
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.List(organizationID, c.Query("category"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina un gasto.
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Delete(organizationID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
