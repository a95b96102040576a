package repository

import "github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar el snapshot de stock
// por producto+sucursal. Usado dentro de transacciones para garantizar consistencia.
// Get y GetForUpdate devuelven un registro en cero (no nil) si la fila no existe.
type StockRepository interface {
	Get(productID, branchID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID, branchID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	ListByBranch(branchID string) ([]*entity.Stock, error)
	// ListByOrganization devuelve todos los snapshots de la organización en una sola
	// lectura (la reconciliación agrupa en memoria en lugar de N×M round trips).
	ListByOrganization(organizationID string) ([]*entity.Stock, error)
}
