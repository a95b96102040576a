package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/inventory"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
)

// InventoryHandler maneja movimientos y consultas de inventario (protegido).
type InventoryHandler struct {
	registerUC *inventory.RegisterMovementUseCase
	queryUC    *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(registerUC *inventory.RegisterMovementUseCase, queryUC *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{registerUC: registerUC, queryUC: queryUC}
}

// RegisterMovement godoc
// @Summary Registrar movimiento de inventario
// @Description Registra un movimiento IN, OUT, ADJUSTMENT o TRANSFER
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body dto.RegisterMovementRequest true "Movimiento"
// @Success 201
// @Router /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	organizationID, userID, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return validationError(c, err)
	}
	input := inventory.MovementInputDTO{
		OrganizationID: organizationID,
		UserID:         userID,
		ProductID:      in.ProductID,
		BranchID:       in.BranchID,
		FromBranchID:   in.FromBranchID,
		ToBranchID:     in.ToBranchID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		UnitCost:       in.UnitCost,
		Notes:          in.Notes,
	}
	if err := h.registerUC.RegisterMovement(c.Context(), input); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// GetStock obtiene el stock de un producto en una sucursal.
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	stock, err := h.queryUC.GetStock(c.Context(), organizationID, c.Params("productId"), c.Params("branchId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockResponse(stock))
}

// ListStockByBranch lista el stock de una sucursal.
func (h *InventoryHandler) ListStockByBranch(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	stocks, err := h.queryUC.ListStockByBranch(c.Context(), organizationID, c.Params("branchId"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockResponse, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, toStockResponse(s))
	}
	return c.JSON(out)
}

// ListMovements lista movimientos de una sucursal, con filtros opcionales
// from/to (YYYY-MM-DD) y paginación.
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
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
	movements, err := h.queryUC.ListMovements(c.Context(), organizationID, c.Params("branchId"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponses(movements))
}

// ListMovementHistory devuelve todo el historial de un par producto/sucursal
// en orden ascendente.
func (h *InventoryHandler) ListMovementHistory(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	movements, err := h.queryUC.ListMovementHistory(c.Context(), organizationID, c.Params("productId"), c.Params("branchId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponses(movements))
}

func toStockResponse(s *entity.Stock) dto.StockResponse {
	return dto.StockResponse{
		ProductID:        s.ProductID,
		BranchID:         s.BranchID,
		Quantity:         s.Quantity,
		ReservedQuantity: s.ReservedQuantity,
		LastMovementDate: s.LastMovementDate,
	}
}

func toMovementResponses(movements []*entity.InventoryMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:               m.ID,
			ProductID:        m.ProductID,
			BranchID:         m.BranchID,
			Type:             m.Type,
			Quantity:         m.Quantity,
			PreviousQuantity: m.PreviousQuantity,
			NewQuantity:      m.NewQuantity,
			ReferenceType:    m.ReferenceType,
			ReferenceID:      m.ReferenceID,
			Notes:            m.Notes,
			MovementDate:     m.MovementDate,
			CreatedBy:        m.CreatedBy,
		})
	}
	return out
}

func parseDateQuery(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
