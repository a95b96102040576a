package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/usecase"
)

// BranchHandler maneja las peticiones HTTP de sucursales (protegido).
type BranchHandler struct {
	uc *usecase.BranchUseCase
}

// NewBranchHandler construye el handler.
func NewBranchHandler(uc *usecase.BranchUseCase) *BranchHandler {
	return &BranchHandler{uc: uc}
}

// Create crea una sucursal.
func (h *BranchHandler) Create(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateBranchRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.Create(organizationID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene una sucursal.
func (h *BranchHandler) GetByID(c *fiber.Ctx) error {
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

// Update actualiza una sucursal.
func (h *BranchHandler) Update(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateBranchRequest
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

// List lista las sucursales de la organización.
func (h *BranchHandler) List(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.List(organizationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina una sucursal.
func (h *BranchHandler) Delete(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Delete(organizationID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
