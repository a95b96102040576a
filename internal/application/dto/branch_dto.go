package dto

import "time"

// CreateBranchRequest body para POST /api/branches.
type CreateBranchRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"omitempty,max=300"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
}

// UpdateBranchRequest body para PUT /api/branches/:id.
type UpdateBranchRequest struct {
	Name     string `json:"name" validate:"omitempty,min=1,max=200"`
	Address  string `json:"address" validate:"omitempty,max=300"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	IsActive *bool  `json:"is_active"`
}

// BranchResponse sucursal en respuestas.
type BranchResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}
