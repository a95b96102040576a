package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

type memStore struct {
	products  map[string]*entity.Product
	branches  map[string]*entity.Branch
	stocks    map[string]*entity.Stock // productID + "|" + branchID
	movements []*entity.InventoryMovement
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		branches: make(map[string]*entity.Branch),
		stocks:   make(map[string]*entity.Stock),
	}
}

func stockKey(productID, branchID string) string { return productID + "|" + branchID }

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(*entity.Product) error { return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *memProductRepo) GetByCode(string, string) (*entity.Product, error) { return nil, nil }
func (r *memProductRepo) Update(*entity.Product) error                      { return nil }
func (r *memProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	r.s.products[id].Cost = cost
	return nil
}
func (r *memProductRepo) ListByOrganization(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *memProductRepo) ListTrackedByOrganization(string) ([]*entity.Product, error) {
	return nil, nil
}
func (r *memProductRepo) Delete(string) error { return nil }

type memBranchRepo struct{ s *memStore }

func (r *memBranchRepo) Create(*entity.Branch) error { return nil }
func (r *memBranchRepo) GetByID(id string) (*entity.Branch, error) {
	return r.s.branches[id], nil
}
func (r *memBranchRepo) Update(*entity.Branch) error                         { return nil }
func (r *memBranchRepo) ListByOrganization(string) ([]*entity.Branch, error) { return nil, nil }
func (r *memBranchRepo) Delete(string) error                                 { return nil }

type memStockRepo struct{ s *memStore }

func (r *memStockRepo) Get(productID, branchID string) (*entity.Stock, error) {
	if st, ok := r.s.stocks[stockKey(productID, branchID)]; ok {
		return st, nil
	}
	return &entity.Stock{ProductID: productID, BranchID: branchID}, nil
}
func (r *memStockRepo) GetForUpdate(productID, branchID string) (*entity.Stock, error) {
	return r.Get(productID, branchID)
}
func (r *memStockRepo) Upsert(st *entity.Stock) error {
	r.s.stocks[stockKey(st.ProductID, st.BranchID)] = st
	return nil
}
func (r *memStockRepo) ListByBranch(string) ([]*entity.Stock, error)       { return nil, nil }
func (r *memStockRepo) ListByOrganization(string) ([]*entity.Stock, error) { return nil, nil }

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(m *entity.InventoryMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *memMovementRepo) GetByID(string) (*entity.InventoryMovement, error) { return nil, nil }
func (r *memMovementRepo) ListByProductAndBranch(string, string) ([]*entity.InventoryMovement, error) {
	return nil, nil
}
func (r *memMovementRepo) ListByOrganization(string) ([]*entity.InventoryMovement, error) {
	return nil, nil
}
func (r *memMovementRepo) ListByBranch(string, *time.Time, *time.Time, int, int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}

type memTxRunner struct{ s *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(&memMovementRepo{r.s}, &memStockRepo{r.s}, &memProductRepo{r.s})
}

func newTestUseCase(s *memStore) *RegisterMovementUseCase {
	return NewRegisterMovementUseCase(&memTxRunner{s}, &memProductRepo{s}, &memBranchRepo{s})
}

func seed(s *memStore) {
	s.products["p1"] = &entity.Product{
		ID: "p1", OrganizationID: "org-1", Name: "Cemento gris",
		Cost: decimal.NewFromInt(100), IsInventoryTracked: true,
	}
	s.branches["b1"] = &entity.Branch{ID: "b1", OrganizationID: "org-1", IsActive: true}
	s.branches["b2"] = &entity.Branch{ID: "b2", OrganizationID: "org-1", IsActive: true}
}

func TestRegisterMovement(t *testing.T) {
	t.Run("INSumaStockYEncadenaPrevNew", func(t *testing.T) {
		s := newMemStore()
		seed(s)
		cost := decimal.NewFromInt(120)

		err := newTestUseCase(s).RegisterMovement(context.Background(), MovementInputDTO{
			OrganizationID: "org-1", UserID: "u1", ProductID: "p1", BranchID: "b1",
			Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(10), UnitCost: &cost,
		})
		require.NoError(t, err)

		st := s.stocks[stockKey("p1", "b1")]
		assert.True(t, st.Quantity.Equal(decimal.NewFromInt(10)))
		require.NotNil(t, st.LastMovementDate)

		require.Len(t, s.movements, 1)
		m := s.movements[0]
		assert.True(t, m.PreviousQuantity.IsZero())
		assert.True(t, m.NewQuantity.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, entity.ReferenceTypeManual, m.ReferenceType)
		// Costo promedio ponderado sobre stock inicial 0: queda el costo de entrada.
		assert.True(t, s.products["p1"].Cost.Equal(decimal.NewFromInt(120)))
	})

	t.Run("OUTSinStockSuficienteFalla", func(t *testing.T) {
		s := newMemStore()
		seed(s)
		s.stocks[stockKey("p1", "b1")] = &entity.Stock{
			ProductID: "p1", BranchID: "b1", Quantity: decimal.NewFromInt(3),
		}

		err := newTestUseCase(s).RegisterMovement(context.Background(), MovementInputDTO{
			OrganizationID: "org-1", UserID: "u1", ProductID: "p1", BranchID: "b1",
			Type: entity.MovementTypeOUT, Quantity: decimal.NewFromInt(5),
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Empty(t, s.movements)
	})

	t.Run("OUTRestaYRegistraDeltaNegativo", func(t *testing.T) {
		s := newMemStore()
		seed(s)
		s.stocks[stockKey("p1", "b1")] = &entity.Stock{
			ProductID: "p1", BranchID: "b1", Quantity: decimal.NewFromInt(10),
		}

		err := newTestUseCase(s).RegisterMovement(context.Background(), MovementInputDTO{
			OrganizationID: "org-1", UserID: "u1", ProductID: "p1", BranchID: "b1",
			Type: entity.MovementTypeOUT, Quantity: decimal.NewFromInt(3),
		})
		require.NoError(t, err)

		require.Len(t, s.movements, 1)
		m := s.movements[0]
		assert.True(t, m.Quantity.Equal(decimal.NewFromInt(-3)))
		assert.True(t, m.PreviousQuantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, m.NewQuantity.Equal(decimal.NewFromInt(7)))
	})

	t.Run("AjusteNegativoNoPuedeDejarStockNegativo", func(t *testing.T) {
		s := newMemStore()
		seed(s)
		s.stocks[stockKey("p1", "b1")] = &entity.Stock{
			ProductID: "p1", BranchID: "b1", Quantity: decimal.NewFromInt(2),
		}

		err := newTestUseCase(s).RegisterMovement(context.Background(), MovementInputDTO{
			OrganizationID: "org-1", UserID: "u1", ProductID: "p1", BranchID: "b1",
			Type: entity.MovementTypeADJUSTMENT, Quantity: decimal.NewFromInt(-5),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("TransferMueveEntreSucursalesConDosMovimientos", func(t *testing.T) {
		s := newMemStore()
		seed(s)
		s.stocks[stockKey("p1", "b1")] = &entity.Stock{
			ProductID: "p1", BranchID: "b1", Quantity: decimal.NewFromInt(10),
		}

		err := newTestUseCase(s).RegisterMovement(context.Background(), MovementInputDTO{
			OrganizationID: "org-1", UserID: "u1", ProductID: "p1",
			FromBranchID: "b1", ToBranchID: "b2",
			Type: entity.MovementTypeTRANSFER, Quantity: decimal.NewFromInt(4),
		})
		require.NoError(t, err)

		assert.True(t, s.stocks[stockKey("p1", "b1")].Quantity.Equal(decimal.NewFromInt(6)))
		assert.True(t, s.stocks[stockKey("p1", "b2")].Quantity.Equal(decimal.NewFromInt(4)))

		require.Len(t, s.movements, 2)
		assert.Equal(t, s.movements[0].ReferenceID, s.movements[1].ReferenceID)
		assert.True(t, s.movements[0].Quantity.Equal(decimal.NewFromInt(-4)))
		assert.True(t, s.movements[1].Quantity.Equal(decimal.NewFromInt(4)))
	})

	t.Run("ProductoDeOtraOrganizacionEsForbidden", func(t *testing.T) {
		s := newMemStore()
		seed(s)
		cost := decimal.NewFromInt(1)

		err := newTestUseCase(s).RegisterMovement(context.Background(), MovementInputDTO{
			OrganizationID: "org-2", UserID: "u1", ProductID: "p1", BranchID: "b1",
			Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(1), UnitCost: &cost,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
