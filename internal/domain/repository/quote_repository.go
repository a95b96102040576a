package repository

import "github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"

// QuoteRepository define el puerto de persistencia para Quote y detalles.
type QuoteRepository interface {
	Create(quote *entity.Quote) error
	CreateDetail(detail *entity.QuoteDetail) error
	GetByID(id string) (*entity.Quote, error)
	GetDetailsByQuoteID(quoteID string) ([]*entity.QuoteDetail, error)
	ListByOrganization(organizationID string, limit, offset int) ([]*entity.Quote, error)
	// MarkConverted marca la cotización como convertida y guarda la factura generada.
	MarkConverted(id, invoiceID string) error
	UpdateStatus(id, status string) error
	Delete(id string) error
}
