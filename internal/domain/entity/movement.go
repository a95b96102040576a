package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste
	MovementTypeTRANSFER   = "TRANSFER"   // traslado entre sucursales
)

// Tipos de referencia: documento de negocio que originó el movimiento.
const (
	ReferenceTypeInvoice = "invoice" // salida por factura
	ReferenceTypeManual  = "manual"  // ajuste manual
	ReferenceTypeAudit   = "audit"   // ajuste generado por la reconciliación de inventario
)

// InventoryMovement es el registro inmutable de un cambio de stock.
// Quantity es el delta (negativo en salidas); PreviousQuantity y NewQuantity
// son el stock antes y después del movimiento. El subsistema de reconciliación
// verifica que PreviousQuantity + Quantity == NewQuantity (tolerancia 0.01) y
// toma NewQuantity del último movimiento como valor esperado del stock.
type InventoryMovement struct {
	ID               string
	OrganizationID   string
	ProductID        string
	BranchID         string
	Type             string // IN, OUT, ADJUSTMENT, TRANSFER
	Quantity         decimal.Decimal
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	ReferenceType    string // invoice, manual, audit
	ReferenceID      string // ID del documento origen (vacío si no aplica)
	Notes            string
	MovementDate     time.Time
	CreatedAt        time.Time
	CreatedBy        string // UserID
}
