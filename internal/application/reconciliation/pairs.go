package reconciliation

import (
	"fmt"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

// pairKey identifica un par (producto, sucursal).
type pairKey struct {
	productID string
	branchID  string
}

// datasets agrupa en memoria todo lo que la reconciliación necesita de una
// organización: cuatro lecturas al almacén en lugar de O(productos × sucursales)
// round trips. La semántica de derivación por par no cambia.
type datasets struct {
	products  []*entity.Product
	branches  []*entity.Branch
	stocks    map[pairKey]*entity.Stock
	movements map[pairKey][]*entity.InventoryMovement
}

// loadDatasets trae productos con inventario, todas las sucursales (activas o no),
// snapshots de stock y movimientos de la organización. Cualquier error de lectura
// aborta la corrida completa.
func loadDatasets(
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	stockRepo repository.StockRepository,
	movementRepo repository.InventoryMovementRepository,
	organizationID string,
) (*datasets, error) {
	products, err := productRepo.ListTrackedByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("listar productos con inventario: %w", err)
	}
	branches, err := branchRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("listar sucursales: %w", err)
	}
	stocks, err := stockRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("listar stock: %w", err)
	}
	movements, err := movementRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}

	d := &datasets{
		products:  products,
		branches:  branches,
		stocks:    make(map[pairKey]*entity.Stock, len(stocks)),
		movements: make(map[pairKey][]*entity.InventoryMovement),
	}
	for _, s := range stocks {
		d.stocks[pairKey{s.ProductID, s.BranchID}] = s
	}
	// El repo entrega los movimientos ordenados por fecha ascendente; el agrupado
	// preserva ese orden dentro de cada par.
	for _, m := range movements {
		k := pairKey{m.ProductID, m.BranchID}
		d.movements[k] = append(d.movements[k], m)
	}
	return d, nil
}

// stockFor devuelve el snapshot del par o un registro en cero si no existe.
func (d *datasets) stockFor(k pairKey) *entity.Stock {
	if s, ok := d.stocks[k]; ok {
		return s
	}
	return &entity.Stock{ProductID: k.productID, BranchID: k.branchID}
}
