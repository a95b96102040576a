package entity

import "time"

// Client representa un cliente de la organización (receptor de facturas y cotizaciones).
type Client struct {
	ID             string
	OrganizationID string
	Name           string
	RNC            string // RNC o cédula del cliente (opcional para consumidor final)
	Email          string
	Phone          string
	Address        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
