package repository

import "github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"

// BranchRepository define el puerto de persistencia para Branch (DIP).
// ListByOrganization devuelve todas las sucursales, activas o no: la auditoría
// de inventario debe cubrir también sucursales desactivadas con historial.
type BranchRepository interface {
	Create(branch *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	Update(branch *entity.Branch) error
	ListByOrganization(organizationID string) ([]*entity.Branch, error)
	Delete(id string) error
}
