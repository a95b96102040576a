package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implementación de OrganizationRepository sobre PostgreSQL.
type OrganizationRepo struct {
	q Querier
}

// NewOrganizationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrganizationRepository(q Querier) *OrganizationRepo {
	return &OrganizationRepo{q: q}
}

// Create persiste una organización.
func (r *OrganizationRepo) Create(org *entity.Organization) error {
	if org.ID == "" {
		org.ID = uuid.New().String()
	}
	query := `
		INSERT INTO organizations (id, name, rnc, address, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		org.ID, org.Name, nullIfEmpty(org.RNC), nullIfEmpty(org.Address),
		nullIfEmpty(org.Phone), nullIfEmpty(org.Email), org.Status,
		org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("organization already exists: %w", err)
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetByID obtiene una organización por ID.
func (r *OrganizationRepo) GetByID(id string) (*entity.Organization, error) {
	query := `
		SELECT id, name, COALESCE(rnc, ''), COALESCE(address, ''), COALESCE(phone, ''), COALESCE(email, ''), status, created_at, updated_at
		FROM organizations WHERE id = $1`
	var o entity.Organization
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.Name, &o.RNC, &o.Address, &o.Phone, &o.Email, &o.Status,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &o, nil
}

// Update actualiza los datos de la organización.
func (r *OrganizationRepo) Update(org *entity.Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, rnc = $3, address = $4, phone = $5, email = $6, status = $7, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		org.ID, org.Name, nullIfEmpty(org.RNC), nullIfEmpty(org.Address),
		nullIfEmpty(org.Phone), nullIfEmpty(org.Email), org.Status,
	)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	return nil
}

var _ repository.OrganizationSettingsRepository = (*OrganizationSettingsRepo)(nil)

// OrganizationSettingsRepo implementación de OrganizationSettingsRepository.
type OrganizationSettingsRepo struct {
	q Querier
}

// NewOrganizationSettingsRepository construye el adaptador.
func NewOrganizationSettingsRepository(q Querier) *OrganizationSettingsRepo {
	return &OrganizationSettingsRepo{q: q}
}

// Get obtiene la configuración de inventario; nil (sin error) si no existe fila.
func (r *OrganizationSettingsRepo) Get(organizationID string) (*entity.OrganizationSettings, error) {
	query := `
		SELECT organization_id, inventory_enabled, auto_deduct_enabled, updated_at
		FROM organization_settings WHERE organization_id = $1`
	var s entity.OrganizationSettings
	err := r.q.QueryRow(context.Background(), query, organizationID).Scan(
		&s.OrganizationID, &s.InventoryEnabled, &s.AutoDeductEnabled, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization settings: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la configuración de la organización.
func (r *OrganizationSettingsRepo) Upsert(settings *entity.OrganizationSettings) error {
	query := `
		INSERT INTO organization_settings (organization_id, inventory_enabled, auto_deduct_enabled, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (organization_id)
		DO UPDATE SET inventory_enabled = EXCLUDED.inventory_enabled,
		              auto_deduct_enabled = EXCLUDED.auto_deduct_enabled,
		              updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		settings.OrganizationID, settings.InventoryEnabled, settings.AutoDeductEnabled,
	)
	if err != nil {
		return fmt.Errorf("upsert organization settings: %w", err)
	}
	return nil
}
