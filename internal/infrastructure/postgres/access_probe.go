package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// sentinelID es una FK imposible: la sonda de inserción espera una violación de
// llave foránea como prueba de que el INSERT llegó hasta la validación de datos.
var sentinelID = uuid.Nil.String()

// AccessProber sondea capacidades de lectura/inserción sobre las tablas del
// subsistema de inventario. Lo consume el módulo de diagnósticos.
type AccessProber struct {
	q Querier
}

// NewAccessProber construye la sonda. Pasar pool o tx (Querier).
func NewAccessProber(q Querier) *AccessProber {
	return &AccessProber{q: q}
}

// Consultas de 1 fila por tabla sondeable. Mapa cerrado: el nombre de tabla nunca
// se interpola desde entrada externa.
var probeQueries = map[string]string{
	"inventory_movements":   `SELECT id FROM inventory_movements WHERE organization_id = $1 LIMIT 1`,
	"stock":                 `SELECT s.product_id FROM stock s JOIN branches b ON b.id = s.branch_id WHERE b.organization_id = $1 LIMIT 1`,
	"organization_settings": `SELECT organization_id FROM organization_settings WHERE organization_id = $1 LIMIT 1`,
	"products":              `SELECT id FROM products WHERE organization_id = $1 LIMIT 1`,
	"branches":              `SELECT id FROM branches WHERE organization_id = $1 LIMIT 1`,
}

// ProbeRead intenta leer 1 fila de la tabla indicada. Una tabla vacía cuenta como
// lectura exitosa; solo errores de acceso/consulta reportan incapacidad.
func (p *AccessProber) ProbeRead(ctx context.Context, table, organizationID string) error {
	query, ok := probeQueries[table]
	if !ok {
		return fmt.Errorf("tabla no sondeable: %s", table)
	}
	var id string
	err := p.q.QueryRow(ctx, query, organizationID).Scan(&id)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return nil
}

// ProbeMovementInsert intenta insertar un movimiento con FKs centinela en cero.
// Una violación de llave foránea demuestra capacidad de inserción (el INSERT pasó
// los permisos y llegó a validar datos). Si el insert llega a completarse, también
// demuestra capacidad y se borra la fila de inmediato (best effort).
func (p *AccessProber) ProbeMovementInsert(ctx context.Context) error {
	id := uuid.New().String()
	query := `
		INSERT INTO inventory_movements (id, organization_id, product_id, branch_id, type, quantity, previous_quantity, new_quantity, movement_date, created_at)
		VALUES ($1, $2, $3, $4, 'ADJUSTMENT', $5, $5, $5, $6, $6)`
	now := time.Now()
	_, err := p.q.Exec(ctx, query, id, sentinelID, sentinelID, sentinelID, decimal.Zero, now)
	if err == nil {
		// No debería pasar con FKs en cero; limpiar la fila de prueba.
		_, _ = p.q.Exec(ctx, `DELETE FROM inventory_movements WHERE id = $1`, id)
		return nil
	}
	if isForeignKeyViolation(err) {
		return nil
	}
	return err
}
