package repository

import (
	"time"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para Expense (DIP).
type ExpenseRepository interface {
	Create(expense *entity.Expense) error
	GetByID(id string) (*entity.Expense, error)
	Update(expense *entity.Expense) error
	// ListByOrganization filtra opcionalmente por categoría y rango de fechas.
	ListByOrganization(organizationID, category string, from, to *time.Time, limit, offset int) ([]*entity.Expense, error)
	Delete(id string) error
}
