package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `product_id, branch_id, quantity, reserved_quantity, last_movement_date, updated_at`

func emptyStock(productID, branchID string) *entity.Stock {
	return &entity.Stock{
		ProductID:        productID,
		BranchID:         branchID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
	}
}

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	err := row.Scan(&s.ProductID, &s.BranchID, &s.Quantity, &s.ReservedQuantity,
		&s.LastMovementDate, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get obtiene el snapshot de stock de un producto en una sucursal.
// Si la fila no existe devuelve un registro en cero: ausencia equivale a stock 0.
func (r *StockRepo) Get(productID, branchID string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE product_id = $1 AND branch_id = $2`
	s, err := scanStock(r.q.QueryRow(context.Background(), query, productID, branchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptyStock(productID, branchID), nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(productID, branchID string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND branch_id = $2
		FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(context.Background(), query, productID, branchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptyStock(productID, branchID), nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// Upsert inserta o actualiza el snapshot por (producto, sucursal). Última escritura gana.
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, branch_id, quantity, reserved_quantity, last_movement_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (product_id, branch_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              reserved_quantity = EXCLUDED.reserved_quantity,
		              last_movement_date = EXCLUDED.last_movement_date,
		              updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.ProductID, stock.BranchID, stock.Quantity, stock.ReservedQuantity, stock.LastMovementDate,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByBranch lista los snapshots de una sucursal.
func (r *StockRepo) ListByBranch(branchID string) ([]*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE branch_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list stock by branch: %w", err)
	}
	defer rows.Close()
	return collectStock(rows)
}

// ListByOrganization trae todos los snapshots de la organización en una lectura
// (vía join con branches); la reconciliación agrupa por par en memoria.
func (r *StockRepo) ListByOrganization(organizationID string) ([]*entity.Stock, error) {
	query := `
		SELECT s.product_id, s.branch_id, s.quantity, s.reserved_quantity, s.last_movement_date, s.updated_at
		FROM stock s
		JOIN branches b ON b.id = s.branch_id
		WHERE b.organization_id = $1`
	rows, err := r.q.Query(context.Background(), query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list stock by organization: %w", err)
	}
	defer rows.Close()
	return collectStock(rows)
}

func collectStock(rows pgx.Rows) ([]*entity.Stock, error) {
	var list []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
