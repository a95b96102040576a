package repository

import "github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"

// ClientRepository define el puerto de persistencia para Client (DIP).
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	Update(client *entity.Client) error
	// ListByOrganization filtra opcionalmente por nombre/RNC (search vacío = todos).
	ListByOrganization(organizationID, search string, limit, offset int) ([]*entity.Client, error)
	Delete(id string) error
}
