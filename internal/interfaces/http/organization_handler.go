package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/usecase"
)

// OrganizationHandler maneja la organización del token y su configuración.
type OrganizationHandler struct {
	uc *usecase.OrganizationUseCase
}

// NewOrganizationHandler construye el handler.
func NewOrganizationHandler(uc *usecase.OrganizationUseCase) *OrganizationHandler {
	return &OrganizationHandler{uc: uc}
}

// Get devuelve la organización del token.
func (h *OrganizationHandler) Get(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.GetByID(organizationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update actualiza los datos de la organización (solo admin).
func (h *OrganizationHandler) Update(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateOrganizationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.Update(organizationID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetSettings devuelve la configuración de inventario.
func (h *OrganizationHandler) GetSettings(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.GetSettings(organizationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateSettings actualiza las banderas de inventario (solo admin).
func (h *OrganizationHandler) UpdateSettings(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateSettings(organizationID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
