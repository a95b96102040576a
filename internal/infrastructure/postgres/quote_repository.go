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

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de QuoteRepository (usable con pool o tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `id, organization_id, branch_id, client_id, number, date, status, subtotal, tax_total, total, COALESCE(notes, ''), COALESCE(converted_invoice_id::text, ''), COALESCE(created_by::text, ''), created_at, updated_at`

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	err := row.Scan(&q.ID, &q.OrganizationID, &q.BranchID, &q.ClientID, &q.Number,
		&q.Date, &q.Status, &q.Subtotal, &q.TaxTotal, &q.Total, &q.Notes,
		&q.ConvertedInvoiceID, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Create persiste la cabecera de la cotización.
func (r *QuoteRepo) Create(quote *entity.Quote) error {
	if quote.ID == "" {
		quote.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quotes (id, organization_id, branch_id, client_id, number, date, status, subtotal, tax_total, total, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		quote.ID, quote.OrganizationID, quote.BranchID, quote.ClientID, quote.Number,
		quote.Date, quote.Status, quote.Subtotal, quote.TaxTotal, quote.Total,
		nullIfEmpty(quote.Notes), nullIfEmpty(quote.CreatedBy),
		quote.CreatedAt, quote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de detalle.
func (r *QuoteRepo) CreateDetail(detail *entity.QuoteDetail) error {
	if detail.ID == "" {
		detail.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quote_details (id, quote_id, product_id, quantity, unit_price, tax_rate, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.QuoteID, detail.ProductID, detail.Quantity,
		detail.UnitPrice, detail.TaxRate, detail.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert quote detail: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *QuoteRepo) GetByID(id string) (*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	q, err := scanQuote(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

// GetDetailsByQuoteID obtiene las líneas de una cotización.
func (r *QuoteRepo) GetDetailsByQuoteID(quoteID string) ([]*entity.QuoteDetail, error) {
	query := `
		SELECT id, quote_id, product_id, quantity, unit_price, tax_rate, subtotal
		FROM quote_details WHERE quote_id = $1`
	rows, err := r.q.Query(context.Background(), query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote details: %w", err)
	}
	defer rows.Close()
	var list []*entity.QuoteDetail
	for rows.Next() {
		var d entity.QuoteDetail
		if err := rows.Scan(&d.ID, &d.QuoteID, &d.ProductID, &d.Quantity,
			&d.UnitPrice, &d.TaxRate, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan quote detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ListByOrganization lista cotizaciones de la organización (paginado, recientes primero).
func (r *QuoteRepo) ListByOrganization(organizationID string, limit, offset int) ([]*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + `
		FROM quotes WHERE organization_id = $1
		ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// MarkConverted marca la cotización como convertida y guarda la factura generada.
func (r *QuoteRepo) MarkConverted(id, invoiceID string) error {
	query := `
		UPDATE quotes
		SET status = $2, converted_invoice_id = $3, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, entity.QuoteStatusConverted, invoiceID)
	if err != nil {
		return fmt.Errorf("mark quote converted: %w", err)
	}
	return nil
}

// UpdateStatus cambia el estado de la cotización.
func (r *QuoteRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE quotes SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	return nil
}

// Delete elimina una cotización y sus detalles (ON DELETE CASCADE).
func (r *QuoteRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}
