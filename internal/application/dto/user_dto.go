package dto

import "time"

// RegisterRequest entrada para el registro inicial: crea la organización y su
// primer usuario con rol admin en un solo paso.
type RegisterRequest struct {
	OrganizationName string `json:"organization_name" validate:"required,min=1,max=200"`
	RNC              string `json:"rnc" validate:"omitempty,max=20"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	Name             string `json:"name" validate:"required,min=1,max=200"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=admin gerente vendedor"`
	BranchID string `json:"branch_id" validate:"omitempty,uuid"`
}

// UpdateUserRequest entrada para actualizar un usuario.
type UpdateUserRequest struct {
	Name     string `json:"name" validate:"omitempty,min=1,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=admin gerente vendedor"`
	BranchID string `json:"branch_id" validate:"omitempty,uuid"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	BranchID       string    `json:"branch_id,omitempty"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
