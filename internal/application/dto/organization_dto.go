package dto

import "time"

// UpdateOrganizationRequest entrada para actualizar los datos de la organización.
type UpdateOrganizationRequest struct {
	Name    string `json:"name" validate:"omitempty,min=1,max=200"`
	RNC     string `json:"rnc" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"omitempty,max=300"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// OrganizationResponse organización en respuestas.
type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RNC       string    `json:"rnc,omitempty"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateSettingsRequest entrada para la configuración de inventario.
// Punteros para distinguir "no enviado" de "false".
type UpdateSettingsRequest struct {
	InventoryEnabled  *bool `json:"inventory_enabled"`
	AutoDeductEnabled *bool `json:"auto_deduct_enabled"`
}

// SettingsResponse configuración de inventario en respuestas.
type SettingsResponse struct {
	OrganizationID    string    `json:"organization_id"`
	InventoryEnabled  bool      `json:"inventory_enabled"`
	AutoDeductEnabled bool      `json:"auto_deduct_enabled"`
	UpdatedAt         time.Time `json:"updated_at"`
}
