package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

// ClientUseCase aplica reglas de negocio para clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso con el puerto de persistencia.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un cliente.
func (uc *ClientUseCase) Create(organizationID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	now := time.Now()
	client := &entity.Client{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           in.Name,
		RNC:            in.RNC,
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(client); err != nil {
		return nil, err
	}
	return clientToResponse(client), nil
}

// GetByID obtiene un cliente verificando la organización.
func (uc *ClientUseCase) GetByID(organizationID, id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil || client.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return clientToResponse(client), nil
}

// Update actualiza un cliente (solo campos enviados).
func (uc *ClientUseCase) Update(organizationID, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil || client.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		client.Name = in.Name
	}
	if in.RNC != "" {
		client.RNC = in.RNC
	}
	if in.Email != "" {
		client.Email = in.Email
	}
	if in.Phone != "" {
		client.Phone = in.Phone
	}
	if in.Address != "" {
		client.Address = in.Address
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(client); err != nil {
		return nil, err
	}
	return clientToResponse(client), nil
}

// List lista clientes con búsqueda opcional por nombre/RNC.
func (uc *ClientUseCase) List(organizationID, search string, limit, offset int) ([]*dto.ClientResponse, error) {
	clients, err := uc.repo.ListByOrganization(organizationID, search, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, clientToResponse(c))
	}
	return out, nil
}

// Delete elimina un cliente.
func (uc *ClientUseCase) Delete(organizationID, id string) error {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil || client.OrganizationID != organizationID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func clientToResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		Name:           c.Name,
		RNC:            c.RNC,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		CreatedAt:      c.CreatedAt,
	}
}
