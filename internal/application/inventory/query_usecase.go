package inventory

import (
	"context"
	"time"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

// QueryUseCase expone lecturas de inventario para los handlers HTTP.
type QueryUseCase struct {
	stockRepo    repository.StockRepository
	movementRepo repository.InventoryMovementRepository
	branchRepo   repository.BranchRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(
	stockRepo repository.StockRepository,
	movementRepo repository.InventoryMovementRepository,
	branchRepo repository.BranchRepository,
) *QueryUseCase {
	return &QueryUseCase{stockRepo: stockRepo, movementRepo: movementRepo, branchRepo: branchRepo}
}

// GetStock devuelve el snapshot de un producto en una sucursal (en cero si no hay fila).
func (uc *QueryUseCase) GetStock(ctx context.Context, organizationID, productID, branchID string) (*entity.Stock, error) {
	if err := uc.checkBranch(organizationID, branchID); err != nil {
		return nil, err
	}
	return uc.stockRepo.Get(productID, branchID)
}

// ListStockByBranch devuelve todos los snapshots de una sucursal.
func (uc *QueryUseCase) ListStockByBranch(ctx context.Context, organizationID, branchID string) ([]*entity.Stock, error) {
	if err := uc.checkBranch(organizationID, branchID); err != nil {
		return nil, err
	}
	return uc.stockRepo.ListByBranch(branchID)
}

// ListMovements devuelve el historial de una sucursal, filtrable por rango de fechas y paginado.
func (uc *QueryUseCase) ListMovements(ctx context.Context, organizationID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	if err := uc.checkBranch(organizationID, branchID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movementRepo.ListByBranch(branchID, from, to, limit, offset)
}

// ListMovementHistory devuelve la cadena completa de un par producto+sucursal,
// en el orden en que la reconciliación la recorre.
func (uc *QueryUseCase) ListMovementHistory(ctx context.Context, organizationID, productID, branchID string) ([]*entity.InventoryMovement, error) {
	if err := uc.checkBranch(organizationID, branchID); err != nil {
		return nil, err
	}
	return uc.movementRepo.ListByProductAndBranch(productID, branchID)
}

func (uc *QueryUseCase) checkBranch(organizationID, branchID string) error {
	b, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return err
	}
	if b == nil || b.OrganizationID != organizationID {
		return domain.ErrNotFound
	}
	return nil
}
