package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/dto"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

// ExpenseUseCase aplica reglas de negocio para gastos operativos.
type ExpenseUseCase struct {
	repo repository.ExpenseRepository
}

// NewExpenseUseCase construye el caso de uso con el puerto de persistencia.
func NewExpenseUseCase(repo repository.ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo}
}

// Create crea un gasto. Sin fecha explícita usa la fecha actual.
func (uc *ExpenseUseCase) Create(organizationID, userID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	date := now
	if in.Date != "" {
		parsed, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		date = parsed
	}
	expense := &entity.Expense{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		BranchID:       in.BranchID,
		Category:       in.Category,
		Description:    in.Description,
		Amount:         in.Amount,
		Date:           date,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(expense); err != nil {
		return nil, err
	}
	return expenseToResponse(expense), nil
}

// GetByID obtiene un gasto verificando la organización.
func (uc *ExpenseUseCase) GetByID(organizationID, id string) (*dto.ExpenseResponse, error) {
	expense, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if expense == nil || expense.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return expenseToResponse(expense), nil
}

// Update actualiza un gasto (solo campos enviados).
func (uc *ExpenseUseCase) Update(organizationID, id string, in dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	expense, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if expense == nil || expense.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	if in.Category != "" {
		expense.Category = in.Category
	}
	if in.Description != "" {
		expense.Description = in.Description
	}
	if in.Amount != nil {
		if !in.Amount.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		expense.Amount = *in.Amount
	}
	if in.Date != "" {
		parsed, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		expense.Date = parsed
	}
	expense.UpdatedAt = time.Now()
	if err := uc.repo.Update(expense); err != nil {
		return nil, err
	}
	return expenseToResponse(expense), nil
}

// List lista gastos con filtros opcionales de categoría y rango de fechas.
func (uc *ExpenseUseCase) List(organizationID, category string, from, to *time.Time, limit, offset int) ([]*dto.ExpenseResponse, error) {
	expenses, err := uc.repo.ListByOrganization(organizationID, category, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, expenseToResponse(e))
	}
	return out, nil
}

// Delete elimina un gasto.
func (uc *ExpenseUseCase) Delete(organizationID, id string) error {
	expense, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if expense == nil || expense.OrganizationID != organizationID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func expenseToResponse(e *entity.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		BranchID:       e.BranchID,
		Category:       e.Category,
		Description:    e.Description,
		Amount:         e.Amount,
		Date:           e.Date,
		CreatedAt:      e.CreatedAt,
	}
}
