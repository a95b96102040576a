package entity

import "time"

// Branch representa una sucursal de una organización; el inventario se controla por sucursal.
type Branch struct {
	ID             string
	OrganizationID string
	Name           string
	Address        string
	Phone          string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
