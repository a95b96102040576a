package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, organization_id, product_id, branch_id, type, quantity, previous_quantity, new_quantity, COALESCE(reference_type, ''), COALESCE(reference_id::text, ''), COALESCE(notes, ''), movement_date, created_at, COALESCE(created_by::text, '')`

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := row.Scan(&m.ID, &m.OrganizationID, &m.ProductID, &m.BranchID, &m.Type,
		&m.Quantity, &m.PreviousQuantity, &m.NewQuantity, &m.ReferenceType,
		&m.ReferenceID, &m.Notes, &m.MovementDate, &m.CreatedAt, &m.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un movimiento de inventario (append-only).
func (r *InventoryMovementRepo) Create(movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, organization_id, product_id, branch_id, type, quantity, previous_quantity, new_quantity, reference_type, reference_id, notes, movement_date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.OrganizationID, movement.ProductID, movement.BranchID,
		movement.Type, movement.Quantity, movement.PreviousQuantity, movement.NewQuantity,
		nullIfEmpty(movement.ReferenceType), nullIfEmpty(movement.ReferenceID),
		nullIfEmpty(movement.Notes), movement.MovementDate, movement.CreatedAt,
		nullIfEmpty(movement.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByProductAndBranch devuelve el historial completo de un par ordenado por
// movement_date ascendente; created_at desempata fechas iguales.
func (r *InventoryMovementRepo) ListByProductAndBranch(productID, branchID string) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE product_id = $1 AND branch_id = $2
		ORDER BY movement_date ASC, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, productID, branchID)
	if err != nil {
		return nil, fmt.Errorf("list movements by pair: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByOrganization devuelve todos los movimientos de la organización ordenados por
// movement_date ascendente. Una sola lectura para toda la reconciliación.
func (r *InventoryMovementRepo) ListByOrganization(organizationID string) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE organization_id = $1
		ORDER BY movement_date ASC, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list movements by organization: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByBranch lista movimientos de una sucursal en un rango de fechas (paginado, descendente).
func (r *InventoryMovementRepo) ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE branch_id = $1`
	args := []any{branchID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND movement_date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND movement_date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY movement_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by branch: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.InventoryMovement, error) {
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
