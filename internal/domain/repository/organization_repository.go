package repository

import "github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"

// OrganizationRepository define el puerto de persistencia para Organization (DIP).
type OrganizationRepository interface {
	Create(org *entity.Organization) error
	GetByID(id string) (*entity.Organization, error)
	Update(org *entity.Organization) error
}

// OrganizationSettingsRepository define el puerto para la configuración de inventario
// de la organización. Get devuelve nil (sin error) si la fila no existe.
type OrganizationSettingsRepository interface {
	Get(organizationID string) (*entity.OrganizationSettings, error)
	Upsert(settings *entity.OrganizationSettings) error
}
