package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/inventory"
)

func mov(id string, prev, delta, newQty float64) *entity.InventoryMovement {
	return &entity.InventoryMovement{
		ID:               id,
		Type:             entity.MovementTypeIN,
		PreviousQuantity: decimal.NewFromFloat(prev),
		Quantity:         decimal.NewFromFloat(delta),
		NewQuantity:      decimal.NewFromFloat(newQty),
	}
}

// Sin movimientos el stock esperado es 0.
func TestDeriveStock_SinMovimientos(t *testing.T) {
	d := inventory.DeriveStock(nil)
	assert.True(t, d.CalculatedStock.IsZero())
	assert.Equal(t, 0, d.MovementCount)
	assert.Empty(t, d.Warnings)
}

// El stock derivado es el NewQuantity del último movimiento, no la suma de deltas.
func TestDeriveStock_UltimoNewQuantityGana(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov("m1", 0, 10, 10),
		mov("m2", 10, -3, 7),
	}
	d := inventory.DeriveStock(movs)
	assert.True(t, d.CalculatedStock.Equal(decimal.NewFromInt(7)),
		"el derivado debe ser el new del último movimiento")
	assert.Equal(t, 2, d.MovementCount)
	assert.Empty(t, d.Warnings)
}

// Cadena rota: se emite warning pero el último NewQuantity sigue ganando.
func TestDeriveStock_CadenaRotaEmiteWarning(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov("m1", 0, 5, 5),
		mov("m2", 10, 2, 12), // previous no coincide con el new anterior
	}
	d := inventory.DeriveStock(movs)
	assert.True(t, d.CalculatedStock.Equal(decimal.NewFromInt(12)),
		"aun con la cadena rota, el último new es la base")
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "rompe la cadena")
}

// Delta que no cuadra con previous/new dentro del mismo movimiento: warning.
func TestDeriveStock_DeltaInconsistenteEmiteWarning(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov("m1", 0, 5, 5),
		mov("m2", 5, 2, 12), // 5 + 2 != 12
	}
	d := inventory.DeriveStock(movs)
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "m2")
	assert.True(t, d.CalculatedStock.Equal(decimal.NewFromInt(12)),
		"el warning es informativo: el new registrado se respeta")
}

// Diferencias dentro de la tolerancia (0.01) no generan warning.
func TestDeriveStock_ToleranciaDecimal(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov("m1", 0, 10.005, 10),
	}
	d := inventory.DeriveStock(movs)
	assert.Empty(t, d.Warnings, "0.005 está dentro de la tolerancia de 0.01")
}

func TestWithinTolerance(t *testing.T) {
	cases := []struct {
		name string
		a, b float64
		want bool
	}{
		{"iguales", 7, 7, true},
		{"borde exacto", 7.01, 7, true},
		{"fuera de tolerancia", 7.02, 7, false},
		{"negativo dentro", -3.005, -3, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.WithinTolerance(decimal.NewFromFloat(tc.a), decimal.NewFromFloat(tc.b))
			assert.Equal(t, tc.want, got)
		})
	}
}
