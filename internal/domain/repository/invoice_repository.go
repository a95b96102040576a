package repository

import "github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice y detalles.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateDetail(detail *entity.InvoiceDetail) error
	GetByID(id string) (*entity.Invoice, error)
	GetDetailsByInvoiceID(invoiceID string) ([]*entity.InvoiceDetail, error)
	ListByOrganization(organizationID string, limit, offset int) ([]*entity.Invoice, error)
	// NextNumber devuelve el siguiente consecutivo de factura de la organización.
	NextNumber(organizationID string) (string, error)
}
