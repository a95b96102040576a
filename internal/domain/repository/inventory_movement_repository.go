package repository

import (
	"time"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para movimientos de
// inventario. Los movimientos son append-only: nunca se actualizan ni se borran.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	GetByID(id string) (*entity.InventoryMovement, error)
	// ListByProductAndBranch devuelve el historial de un par ordenado por
	// movement_date ascendente (empates resueltos por created_at).
	ListByProductAndBranch(productID, branchID string) ([]*entity.InventoryMovement, error)
	// ListByOrganization devuelve todos los movimientos de la organización ordenados
	// por movement_date ascendente, para agrupar por par en memoria (reconciliación).
	ListByOrganization(organizationID string) ([]*entity.InventoryMovement, error)
	ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
}
