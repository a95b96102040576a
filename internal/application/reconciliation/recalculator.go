package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	appinventory "github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/inventory"
	dominventory "github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/inventory"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
	"github.com/Almanzar001/FacturaSaasfn-sub001/pkg/logger"
)

// RecalculateUseCase reconstruye los snapshots de stock desde el historial de
// movimientos. A diferencia de FixDiscrepancies no asienta ajustes: reescribe
// el snapshot directamente, por lo que es la herramienta para migraciones y
// reparaciones masivas.
type RecalculateUseCase struct {
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	stockRepo    repository.StockRepository
	movementRepo repository.InventoryMovementRepository
	txRunner     appinventory.TxRunner
	log          *logger.Logger
}

// NewRecalculateUseCase construye el caso de uso de recálculo.
func NewRecalculateUseCase(
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	stockRepo repository.StockRepository,
	movementRepo repository.InventoryMovementRepository,
	txRunner appinventory.TxRunner,
	log *logger.Logger,
) *RecalculateUseCase {
	return &RecalculateUseCase{
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		txRunner:     txRunner,
		log:          log,
	}
}

// RecalculateAll recorre todos los pares producto+sucursal de la organización y
// corrige el snapshot de los que difieren de su historial. Los pares sin
// movimientos nunca se tocan: un stock cargado a mano sin historial es válido.
// Una falla en un par se registra en su resultado y la corrida continúa.
func (uc *RecalculateUseCase) RecalculateAll(ctx context.Context, organizationID string) (*RecalcSummary, error) {
	data, err := loadDatasets(uc.productRepo, uc.branchRepo, uc.stockRepo, uc.movementRepo, organizationID)
	if err != nil {
		return nil, fmt.Errorf("cargar datos de recálculo: %w", err)
	}

	summary := &RecalcSummary{
		OrganizationID: organizationID,
		Results:        []RecalcResult{},
		GeneratedAt:    time.Now(),
	}

	for _, p := range data.products {
		for _, b := range data.branches {
			k := pairKey{p.ID, b.ID}
			movements := data.movements[k]
			if len(movements) == 0 {
				continue
			}
			summary.Examined++

			stock := data.stockFor(k)
			derived := dominventory.DeriveStock(movements)

			result := RecalcResult{
				ProductID:     p.ID,
				ProductName:   p.Name,
				BranchID:      b.ID,
				BranchName:    b.Name,
				OldStock:      stock.Quantity,
				NewStock:      derived.CalculatedStock,
				MovementCount: derived.MovementCount,
			}

			if !dominventory.WithinTolerance(stock.Quantity, derived.CalculatedStock) {
				if err := uc.rewritePair(ctx, k, derived.CalculatedStock); err != nil {
					uc.log.Error().Err(err).
						Str("product_id", p.ID).
						Str("branch_id", b.ID).
						Msg("no se pudo recalcular el stock")
					result.Error = err.Error()
					summary.Failed++
				} else {
					result.Corrected = true
					summary.Corrected++
				}
			}

			summary.Results = append(summary.Results, result)
		}
	}

	uc.log.Info().
		Str("organization_id", organizationID).
		Int("examined", summary.Examined).
		Int("corrected", summary.Corrected).
		Int("failed", summary.Failed).
		Msg("recálculo de inventario completado")

	return summary, nil
}

// rewritePair fija el snapshot de un par al valor derivado, en su propia transacción.
func (uc *RecalculateUseCase) rewritePair(ctx context.Context, k pairKey, calculated decimal.Decimal) error {
	return uc.txRunner.Run(ctx, func(
		_ repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ProductRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(k.productID, k.branchID)
		if err != nil {
			return fmt.Errorf("bloquear stock: %w", err)
		}
		now := time.Now()
		stock.Quantity = calculated
		stock.ReservedQuantity = decimal.Zero
		stock.LastMovementDate = &now
		if err := stockRepo.Upsert(stock); err != nil {
			return fmt.Errorf("actualizar stock: %w", err)
		}
		return nil
	})
}
