package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
)

// Tolerance es la tolerancia para comparar cantidades de stock.
// Diferencias de magnitud menor o igual se consideran iguales.
var Tolerance = decimal.NewFromFloat(0.01)

// WithinTolerance reporta si a y b difieren a lo sumo en Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// Derivation es el resultado de derivar el stock esperado desde el historial de movimientos.
type Derivation struct {
	CalculatedStock decimal.Decimal
	MovementCount   int
	Warnings        []string
}

// DeriveStock recorre los movimientos en orden cronológico ascendente y deriva el
// stock esperado de un par (producto, sucursal). El valor derivado es el NewQuantity
// del último movimiento, no la suma acumulada de deltas: cada movimiento registró el
// stock resultante y ese campo es la fuente de verdad.
//
// Por cada movimiento se verifica que PreviousQuantity coincida con el saldo que se
// venía derivando y que PreviousQuantity + Quantity == NewQuantity, ambas dentro de
// la tolerancia. Una violación genera un warning pero nunca corta la derivación: el
// NewQuantity registrado se convierte en la nueva base igual ("el último movimiento
// gana"). Sin movimientos, el stock esperado es 0.
func DeriveStock(movements []*entity.InventoryMovement) Derivation {
	d := Derivation{CalculatedStock: decimal.Zero, MovementCount: len(movements)}
	running := decimal.Zero
	for i, m := range movements {
		// La cadena se valida a partir del segundo movimiento: el primero puede
		// arrancar de un saldo inicial distinto de 0 sin historial previo.
		if i > 0 && !WithinTolerance(m.PreviousQuantity, running) {
			d.Warnings = append(d.Warnings, fmt.Sprintf(
				"movimiento %s rompe la cadena: previous %s no coincide con el saldo derivado %s",
				m.ID, m.PreviousQuantity, running,
			))
		}
		expected := m.PreviousQuantity.Add(m.Quantity)
		if !WithinTolerance(expected, m.NewQuantity) {
			d.Warnings = append(d.Warnings, fmt.Sprintf(
				"movimiento %s inconsistente: previous %s + delta %s = %s, pero new registra %s",
				m.ID, m.PreviousQuantity, m.Quantity, expected, m.NewQuantity,
			))
		}
		running = m.NewQuantity
	}
	d.CalculatedStock = running
	return d
}
