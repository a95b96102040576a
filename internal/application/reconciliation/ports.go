package reconciliation

import "context"

// AccessProber sondea capacidades de acceso al almacén de datos. Lo implementa
// la infraestructura PostgreSQL; los diagnósticos lo consumen sin conocer SQL.
type AccessProber interface {
	// ProbeRead intenta leer 1 fila de la tabla; error = sin capacidad de lectura.
	ProbeRead(ctx context.Context, table, organizationID string) error
	// ProbeMovementInsert demuestra capacidad de inserción en movimientos sin dejar
	// datos: una violación de FK con centinelas en cero cuenta como éxito.
	ProbeMovementInsert(ctx context.Context) error
}
