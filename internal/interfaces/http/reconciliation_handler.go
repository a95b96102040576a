package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/reconciliation"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/infrastructure/cache"
	"github.com/Almanzar001/FacturaSaasfn-sub001/pkg/logger"
)

// ReconciliationHandler expone la auditoría, la corrección y el diagnóstico
// de inventario. Las rutas se registran con RequireRole(admin, gerente).
type ReconciliationHandler struct {
	auditUC       *reconciliation.AuditUseCase
	recalcUC      *reconciliation.RecalculateUseCase
	diagnosticsUC *reconciliation.DiagnosticsUseCase
	auditCache    *cache.AuditCache
	log           *logger.Logger
}

// NewReconciliationHandler construye el handler.
func NewReconciliationHandler(
	auditUC *reconciliation.AuditUseCase,
	recalcUC *reconciliation.RecalculateUseCase,
	diagnosticsUC *reconciliation.DiagnosticsUseCase,
	auditCache *cache.AuditCache,
	log *logger.Logger,
) *ReconciliationHandler {
	return &ReconciliationHandler{
		auditUC:       auditUC,
		recalcUC:      recalcUC,
		diagnosticsUC: diagnosticsUC,
		auditCache:    auditCache,
		log:           log,
	}
}

// Audit godoc
// @Summary Auditar inventario
// @Description Compara el stock registrado contra el derivado de los movimientos. Solo lectura.
// @Tags reconciliation
// @Produce json
// @Success 200 {object} reconciliation.AuditSummary
// @Router /api/inventory/reconciliation/audit [get]
func (h *ReconciliationHandler) Audit(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	// Cache-aside: un fallo de Redis nunca bloquea la auditoría.
	if c.Query("refresh") != "true" {
		if cached, hit, err := h.auditCache.Get(c.Context(), organizationID); err != nil {
			h.log.Warn().Err(err).Str("organization_id", organizationID).Msg("cache de auditoría no disponible")
		} else if hit {
			c.Set("X-Cache", "HIT")
			return c.JSON(cached)
		}
	}
	summary, err := h.auditUC.AuditInventory(c.Context(), organizationID)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.auditCache.Set(c.Context(), organizationID, summary); err != nil {
		h.log.Warn().Err(err).Str("organization_id", organizationID).Msg("no se pudo cachear la auditoría")
	}
	return c.JSON(summary)
}

// Fix godoc
// @Summary Corregir discrepancias
// @Description Audita y corrige cada discrepancia en su propia transacción, registrando un ajuste
// @Tags reconciliation
// @Produce json
// @Success 200 {object} reconciliation.FixReport
// @Router /api/inventory/reconciliation/fix [post]
func (h *ReconciliationHandler) Fix(c *fiber.Ctx) error {
	organizationID, userID, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	report, err := h.auditUC.FixDiscrepancies(c.Context(), organizationID, userID)
	if err != nil {
		return respondError(c, err)
	}
	h.invalidateAudit(c, organizationID)
	return c.JSON(report)
}

// Recalculate godoc
// @Summary Recalcular snapshots
// @Description Reescribe los snapshots desviados a partir del historial sin registrar movimientos
// @Tags reconciliation
// @Produce json
// @Success 200 {object} reconciliation.RecalcSummary
// @Router /api/inventory/reconciliation/recalculate [post]
func (h *ReconciliationHandler) Recalculate(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	summary, err := h.recalcUC.RecalculateAll(c.Context(), organizationID)
	if err != nil {
		return respondError(c, err)
	}
	h.invalidateAudit(c, organizationID)
	return c.JSON(summary)
}

// Diagnostics verifica acceso a tablas y configuración de inventario.
// Siempre responde 200; los fallos van dentro del reporte.
func (h *ReconciliationHandler) Diagnostics(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(h.diagnosticsUC.RunDiagnostics(c.Context(), organizationID))
}

// SettingsCheck verifica la configuración de inventario de la organización.
func (h *ReconciliationHandler) SettingsCheck(c *fiber.Ctx) error {
	organizationID, _, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(h.diagnosticsUC.CheckInventorySettings(c.Context(), organizationID))
}

// PermissionsCheck verifica la identidad y rol del usuario autenticado.
func (h *ReconciliationHandler) PermissionsCheck(c *fiber.Ctx) error {
	_, userID, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(h.diagnosticsUC.CheckUserPermissions(c.Context(), userID))
}

func (h *ReconciliationHandler) invalidateAudit(c *fiber.Ctx, organizationID string) {
	if err := h.auditCache.Invalidate(c.Context(), organizationID); err != nil {
		h.log.Warn().Err(err).Str("organization_id", organizationID).Msg("no se pudo invalidar la cache de auditoría")
	}
}
