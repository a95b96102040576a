package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	appinventory "github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/inventory"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	dominventory "github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/inventory"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
	"github.com/Almanzar001/FacturaSaasfn-sub001/pkg/logger"
)

// AuditUseCase compara el snapshot de stock contra el historial de movimientos
// y corrige las discrepancias encontradas.
type AuditUseCase struct {
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	stockRepo    repository.StockRepository
	movementRepo repository.InventoryMovementRepository
	txRunner     appinventory.TxRunner
	log          *logger.Logger
}

// NewAuditUseCase construye el caso de uso de auditoría.
func NewAuditUseCase(
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	stockRepo repository.StockRepository,
	movementRepo repository.InventoryMovementRepository,
	txRunner appinventory.TxRunner,
	log *logger.Logger,
) *AuditUseCase {
	return &AuditUseCase{
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		txRunner:     txRunner,
		log:          log,
	}
}

// AuditInventory audita todos los pares producto+sucursal de la organización.
// Solo lee: nunca modifica stock ni movimientos. El snapshot de stock es el que
// está bajo sospecha, así que el valor esperado se deriva del historial con
// DeriveStock y la comparación usa la tolerancia decimal compartida.
func (uc *AuditUseCase) AuditInventory(ctx context.Context, organizationID string) (*AuditSummary, error) {
	data, err := loadDatasets(uc.productRepo, uc.branchRepo, uc.stockRepo, uc.movementRepo, organizationID)
	if err != nil {
		return nil, fmt.Errorf("cargar datos de auditoría: %w", err)
	}

	summary := &AuditSummary{
		OrganizationID: organizationID,
		Results:        []AuditResult{},
		GeneratedAt:    time.Now(),
	}

	for _, p := range data.products {
		for _, b := range data.branches {
			k := pairKey{p.ID, b.ID}
			summary.TotalProducts++

			stock := data.stockFor(k)
			movements := data.movements[k]
			summary.TotalMovements += len(movements)

			derived := dominventory.DeriveStock(movements)
			diff := stock.Quantity.Sub(derived.CalculatedStock)
			hasDiscrepancy := !dominventory.WithinTolerance(stock.Quantity, derived.CalculatedStock)
			if hasDiscrepancy {
				summary.Discrepancies++
			}

			// Pares sin historial y sin existencias no aportan información.
			if len(movements) == 0 && stock.Quantity.IsZero() && derived.CalculatedStock.IsZero() {
				continue
			}

			summary.Results = append(summary.Results, AuditResult{
				ProductID:       p.ID,
				ProductName:     p.Name,
				BranchID:        b.ID,
				BranchName:      b.Name,
				CurrentStock:    stock.Quantity,
				CalculatedStock: derived.CalculatedStock,
				Difference:      diff,
				MovementCount:   derived.MovementCount,
				HasDiscrepancy:  hasDiscrepancy,
				Warnings:        derived.Warnings,
			})
		}
	}

	uc.log.Info().
		Str("organization_id", organizationID).
		Int("pairs", summary.TotalProducts).
		Int("discrepancies", summary.Discrepancies).
		Msg("auditoría de inventario completada")

	return summary, nil
}

// FixDiscrepancies audita y corrige cada par con discrepancia: fija el stock al
// valor derivado, resetea la cantidad reservada a cero y registra un movimiento
// ADJUSTMENT con referencia "audit" para que el historial siga cuadrando.
// Cada par se corrige en su propia transacción; una falla se acumula en Errors
// y la corrida continúa con el resto.
func (uc *AuditUseCase) FixDiscrepancies(ctx context.Context, organizationID, userID string) (*FixReport, error) {
	summary, err := uc.AuditInventory(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	report := &FixReport{
		OrganizationID: organizationID,
		Items:          []FixedItem{},
		GeneratedAt:    time.Now(),
	}

	for _, r := range summary.Results {
		if !r.HasDiscrepancy {
			continue
		}
		if err := uc.fixPair(ctx, organizationID, userID, r); err != nil {
			uc.log.Error().Err(err).
				Str("product_id", r.ProductID).
				Str("branch_id", r.BranchID).
				Msg("no se pudo corregir la discrepancia")
			report.Errors = append(report.Errors,
				fmt.Sprintf("producto %s sucursal %s: %v", r.ProductID, r.BranchID, err))
			continue
		}
		report.Fixed++
		report.Items = append(report.Items, FixedItem{
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			BranchID:      r.BranchID,
			BranchName:    r.BranchName,
			PreviousStock: r.CurrentStock,
			NewStock:      r.CalculatedStock,
		})
	}

	uc.log.Info().
		Str("organization_id", organizationID).
		Int("fixed", report.Fixed).
		Int("errors", len(report.Errors)).
		Msg("corrección de discrepancias completada")

	return report, nil
}

// fixPair aplica la corrección de un par dentro de una transacción. El snapshot
// se relee con lock para no pisar un movimiento concurrente posterior a la auditoría.
func (uc *AuditUseCase) fixPair(ctx context.Context, organizationID, userID string, r AuditResult) error {
	return uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ProductRepository,
	) error {
		current, err := stockRepo.GetForUpdate(r.ProductID, r.BranchID)
		if err != nil {
			return fmt.Errorf("bloquear stock: %w", err)
		}

		now := time.Now()
		// El delta se calcula sobre la relectura bloqueada, no sobre el valor de la
		// auditoría: pudo haber movimientos entre auditar y corregir.
		previous := current.Quantity
		delta := r.CalculatedStock.Sub(previous)

		// La reserva se resetea siempre: tras una corrección el valor previo ya no es confiable.
		current.Quantity = r.CalculatedStock
		current.ReservedQuantity = decimal.Zero
		current.LastMovementDate = &now
		if err := stockRepo.Upsert(current); err != nil {
			return fmt.Errorf("actualizar stock: %w", err)
		}

		// Con delta dentro de la tolerancia no hay nada que asentar en el historial.
		if delta.Abs().LessThanOrEqual(dominventory.Tolerance) {
			return nil
		}

		movement := &entity.InventoryMovement{
			OrganizationID:   organizationID,
			ProductID:        r.ProductID,
			BranchID:         r.BranchID,
			Type:             entity.MovementTypeADJUSTMENT,
			Quantity:         delta,
			PreviousQuantity: previous,
			NewQuantity:      r.CalculatedStock,
			ReferenceType:    entity.ReferenceTypeAudit,
			Notes:            fmt.Sprintf("Ajuste por auditoría: stock %s corregido a %s", previous.String(), r.CalculatedStock.String()),
			MovementDate:     now,
			CreatedBy:        userID,
		}
		if err := movRepo.Create(movement); err != nil {
			return fmt.Errorf("registrar ajuste: %w", err)
		}
		return nil
	})
}
