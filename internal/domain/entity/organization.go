package entity

import "time"

// Organization representa una organización/tenant del sistema (multi-tenant).
type Organization struct {
	ID        string
	Name      string
	RNC       string // RNC o cédula (identificación tributaria, República Dominicana)
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrganizationSettings configuración de inventario a nivel de organización.
// Las dos banderas las consume el subsistema de inventario y los diagnósticos.
type OrganizationSettings struct {
	OrganizationID    string
	InventoryEnabled  bool // módulo de inventario activo
	AutoDeductEnabled bool // descontar stock automáticamente al facturar
	UpdatedAt         time.Time
}
