package reconciliation

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
	"github.com/Almanzar001/FacturaSaasfn-sub001/pkg/logger"
)

const testOrgID = "org-1"

// fakeStore simula el almacén completo en memoria; cada fake repo opera sobre él.
type fakeStore struct {
	products      []*entity.Product
	branches      []*entity.Branch
	stocks        map[pairKey]*entity.Stock
	movements     []*entity.InventoryMovement
	created       []*entity.InventoryMovement
	failUpsertFor map[pairKey]bool
	upserts       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stocks:        make(map[pairKey]*entity.Stock),
		failUpsertFor: make(map[pairKey]bool),
	}
}

func (s *fakeStore) addProduct(id, name string) {
	s.products = append(s.products, &entity.Product{ID: id, OrganizationID: testOrgID, Name: name, IsInventoryTracked: true})
}

func (s *fakeStore) addBranch(id, name string) {
	s.branches = append(s.branches, &entity.Branch{ID: id, OrganizationID: testOrgID, Name: name, IsActive: true})
}

func (s *fakeStore) setStock(productID, branchID string, qty, reserved float64) {
	s.stocks[pairKey{productID, branchID}] = &entity.Stock{
		ProductID:        productID,
		BranchID:         branchID,
		Quantity:         decimal.NewFromFloat(qty),
		ReservedQuantity: decimal.NewFromFloat(reserved),
	}
}

func (s *fakeStore) addMovement(productID, branchID string, prev, delta, next float64, at time.Time) {
	s.movements = append(s.movements, &entity.InventoryMovement{
		ID:               "mov-" + at.Format("150405"),
		OrganizationID:   testOrgID,
		ProductID:        productID,
		BranchID:         branchID,
		Type:             entity.MovementTypeIN,
		Quantity:         decimal.NewFromFloat(delta),
		PreviousQuantity: decimal.NewFromFloat(prev),
		NewQuantity:      decimal.NewFromFloat(next),
		MovementDate:     at,
	})
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(*entity.Product) error                   { return nil }
func (r *fakeProductRepo) GetByID(string) (*entity.Product, error)        { return nil, nil }
func (r *fakeProductRepo) GetByCode(_, _ string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Update(*entity.Product) error                   { return nil }
func (r *fakeProductRepo) UpdateCost(string, decimal.Decimal) error       { return nil }
func (r *fakeProductRepo) ListByOrganization(string, int, int) ([]*entity.Product, error) {
	return r.s.products, nil
}
func (r *fakeProductRepo) ListTrackedByOrganization(string) ([]*entity.Product, error) {
	return r.s.products, nil
}
func (r *fakeProductRepo) Delete(string) error { return nil }

type fakeBranchRepo struct{ s *fakeStore }

func (r *fakeBranchRepo) Create(*entity.Branch) error            { return nil }
func (r *fakeBranchRepo) GetByID(string) (*entity.Branch, error) { return nil, nil }
func (r *fakeBranchRepo) Update(*entity.Branch) error            { return nil }
func (r *fakeBranchRepo) ListByOrganization(string) ([]*entity.Branch, error) {
	return r.s.branches, nil
}
func (r *fakeBranchRepo) Delete(string) error { return nil }

type fakeStockRepo struct{ s *fakeStore }

func (r *fakeStockRepo) Get(productID, branchID string) (*entity.Stock, error) {
	if st, ok := r.s.stocks[pairKey{productID, branchID}]; ok {
		return st, nil
	}
	return &entity.Stock{ProductID: productID, BranchID: branchID}, nil
}
func (r *fakeStockRepo) GetForUpdate(productID, branchID string) (*entity.Stock, error) {
	return r.Get(productID, branchID)
}
func (r *fakeStockRepo) Upsert(stock *entity.Stock) error {
	k := pairKey{stock.ProductID, stock.BranchID}
	if r.s.failUpsertFor[k] {
		return errors.New("deadlock detected")
	}
	r.s.upserts++
	r.s.stocks[k] = stock
	return nil
}
func (r *fakeStockRepo) ListByBranch(string) ([]*entity.Stock, error) { return nil, nil }
func (r *fakeStockRepo) ListByOrganization(string) ([]*entity.Stock, error) {
	out := make([]*entity.Stock, 0, len(r.s.stocks))
	for _, st := range r.s.stocks {
		out = append(out, st)
	}
	return out, nil
}

type fakeMovementRepo struct{ s *fakeStore }

func (r *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	r.s.created = append(r.s.created, m)
	return nil
}
func (r *fakeMovementRepo) GetByID(string) (*entity.InventoryMovement, error) { return nil, nil }
func (r *fakeMovementRepo) ListByProductAndBranch(productID, branchID string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID && m.BranchID == branchID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *fakeMovementRepo) ListByOrganization(string) ([]*entity.InventoryMovement, error) {
	out := append([]*entity.InventoryMovement(nil), r.s.movements...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MovementDate.Before(out[j].MovementDate) })
	return out, nil
}
func (r *fakeMovementRepo) ListByBranch(string, *time.Time, *time.Time, int, int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}

// fakeTxRunner ejecuta fn directamente contra el almacén en memoria, sin transacción.
type fakeTxRunner struct{ s *fakeStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(&fakeMovementRepo{r.s}, &fakeStockRepo{r.s}, &fakeProductRepo{r.s})
}

func newAuditUseCase(s *fakeStore) *AuditUseCase {
	return NewAuditUseCase(
		&fakeProductRepo{s}, &fakeBranchRepo{s}, &fakeStockRepo{s}, &fakeMovementRepo{s},
		&fakeTxRunner{s}, logger.NewNop(),
	)
}

func newRecalculateUseCase(s *fakeStore) *RecalculateUseCase {
	return NewRecalculateUseCase(
		&fakeProductRepo{s}, &fakeBranchRepo{s}, &fakeStockRepo{s}, &fakeMovementRepo{s},
		&fakeTxRunner{s}, logger.NewNop(),
	)
}

// seedPair arma el escenario base: dos movimientos que dejan el stock derivado en 7.
func seedPair(s *fakeStore, productID, branchID string) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.addMovement(productID, branchID, 0, 10, 10, base)
	s.addMovement(productID, branchID, 10, -3, 7, base.Add(time.Hour))
}

func TestAuditInventory(t *testing.T) {
	t.Run("SnapshotCorrectoNoReportaDiscrepancia", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addBranch("b1", "Sucursal Central")
		seedPair(s, "p1", "b1")
		s.setStock("p1", "b1", 7, 0)

		summary, err := newAuditUseCase(s).AuditInventory(context.Background(), testOrgID)
		require.NoError(t, err)

		require.Len(t, summary.Results, 1)
		r := summary.Results[0]
		assert.False(t, r.HasDiscrepancy)
		assert.True(t, r.CalculatedStock.Equal(decimal.NewFromInt(7)))
		assert.True(t, r.Difference.IsZero())
		assert.Equal(t, 2, r.MovementCount)
		assert.Equal(t, 0, summary.Discrepancies)
		assert.Equal(t, 1, summary.TotalProducts)
		assert.Equal(t, 2, summary.TotalMovements)
	})

	t.Run("SnapshotDesviadoReportaDiscrepancia", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addBranch("b1", "Sucursal Central")
		seedPair(s, "p1", "b1")
		s.setStock("p1", "b1", 5, 0)

		summary, err := newAuditUseCase(s).AuditInventory(context.Background(), testOrgID)
		require.NoError(t, err)

		require.Len(t, summary.Results, 1)
		r := summary.Results[0]
		assert.True(t, r.HasDiscrepancy)
		assert.True(t, r.Difference.Equal(decimal.NewFromInt(-2)), "difference = actual - derivado")
		assert.Equal(t, 1, summary.Discrepancies)
	})

	t.Run("DesvioDentroDeToleranciaNoEsDiscrepancia", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addBranch("b1", "Sucursal Central")
		seedPair(s, "p1", "b1")
		s.stocks[pairKey{"p1", "b1"}] = &entity.Stock{
			ProductID: "p1", BranchID: "b1", Quantity: decimal.NewFromFloat(7.01),
		}

		summary, err := newAuditUseCase(s).AuditInventory(context.Background(), testOrgID)
		require.NoError(t, err)
		require.Len(t, summary.Results, 1)
		assert.False(t, summary.Results[0].HasDiscrepancy)
	})

	t.Run("NoModificaNada", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addBranch("b1", "Sucursal Central")
		seedPair(s, "p1", "b1")
		s.setStock("p1", "b1", 5, 2)

		_, err := newAuditUseCase(s).AuditInventory(context.Background(), testOrgID)
		require.NoError(t, err)

		assert.Zero(t, s.upserts)
		assert.Empty(t, s.created)
		st := s.stocks[pairKey{"p1", "b1"}]
		assert.True(t, st.Quantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, st.ReservedQuantity.Equal(decimal.NewFromInt(2)))
	})

	t.Run("ParesVaciosCuentanPeroNoSeListan", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addProduct("p2", "Varilla 3/8")
		s.addBranch("b1", "Sucursal Central")
		seedPair(s, "p1", "b1")
		s.setStock("p1", "b1", 7, 0)
		// p2 nunca tuvo movimientos ni stock

		summary, err := newAuditUseCase(s).AuditInventory(context.Background(), testOrgID)
		require.NoError(t, err)

		assert.Equal(t, 2, summary.TotalProducts)
		assert.Len(t, summary.Results, 1)
		assert.Equal(t, "p1", summary.Results[0].ProductID)
	})

	t.Run("StockHuerfanoSinMovimientosEsDiscrepancia", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addBranch("b1", "Sucursal Central")
		s.setStock("p1", "b1", 5, 0)

		summary, err := newAuditUseCase(s).AuditInventory(context.Background(), testOrgID)
		require.NoError(t, err)

		require.Len(t, summary.Results, 1)
		r := summary.Results[0]
		assert.True(t, r.HasDiscrepancy)
		assert.True(t, r.CalculatedStock.IsZero())
		assert.Equal(t, 0, r.MovementCount)
	})
}

func TestFixDiscrepancies(t *testing.T) {
	t.Run("CorrigeStockReservaYRegistraAjuste", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addBranch("b1", "Sucursal Central")
		seedPair(s, "p1", "b1")
		s.setStock("p1", "b1", 5, 3)

		report, err := newAuditUseCase(s).FixDiscrepancies(context.Background(), testOrgID, "user-9")
		require.NoError(t, err)

		assert.Equal(t, 1, report.Fixed)
		assert.Empty(t, report.Errors)

		st := s.stocks[pairKey{"p1", "b1"}]
		assert.True(t, st.Quantity.Equal(decimal.NewFromInt(7)))
		assert.True(t, st.ReservedQuantity.IsZero(), "la reserva se resetea siempre")
		require.NotNil(t, st.LastMovementDate)

		require.Len(t, s.created, 1)
		m := s.created[0]
		assert.Equal(t, entity.MovementTypeADJUSTMENT, m.Type)
		assert.Equal(t, entity.ReferenceTypeAudit, m.ReferenceType)
		assert.Equal(t, "user-9", m.CreatedBy)
		assert.True(t, m.Quantity.Equal(decimal.NewFromInt(2)))
		assert.True(t, m.PreviousQuantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, m.NewQuantity.Equal(decimal.NewFromInt(7)))
	})

	t.Run("SinDiscrepanciasNoTocaNada", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addBranch("b1", "Sucursal Central")
		seedPair(s, "p1", "b1")
		s.setStock("p1", "b1", 7, 1)

		report, err := newAuditUseCase(s).FixDiscrepancies(context.Background(), testOrgID, "user-9")
		require.NoError(t, err)

		assert.Equal(t, 0, report.Fixed)
		assert.Empty(t, s.created)
		assert.Zero(t, s.upserts)
		// Sin corrección la reserva queda como estaba.
		assert.True(t, s.stocks[pairKey{"p1", "b1"}].ReservedQuantity.Equal(decimal.NewFromInt(1)))
	})

	t.Run("FallaEnUnParNoDetieneElResto", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addProduct("p2", "Varilla 3/8")
		s.addBranch("b1", "Sucursal Central")
		seedPair(s, "p1", "b1")
		seedPair(s, "p2", "b1")
		s.setStock("p1", "b1", 5, 0)
		s.setStock("p2", "b1", 4, 0)
		s.failUpsertFor[pairKey{"p1", "b1"}] = true

		report, err := newAuditUseCase(s).FixDiscrepancies(context.Background(), testOrgID, "user-9")
		require.NoError(t, err)

		assert.Equal(t, 1, report.Fixed)
		require.Len(t, report.Errors, 1)
		assert.Contains(t, report.Errors[0], "p1")
		assert.True(t, s.stocks[pairKey{"p2", "b1"}].Quantity.Equal(decimal.NewFromInt(7)))
		assert.True(t, s.stocks[pairKey{"p1", "b1"}].Quantity.Equal(decimal.NewFromInt(5)), "el par fallido queda intacto")
	})
}

func TestRecalculateAll(t *testing.T) {
	t.Run("CorrigeSnapshotSinRegistrarMovimientos", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addBranch("b1", "Sucursal Central")
		seedPair(s, "p1", "b1")
		s.setStock("p1", "b1", 12, 4)

		summary, err := newRecalculateUseCase(s).RecalculateAll(context.Background(), testOrgID)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.Examined)
		assert.Equal(t, 1, summary.Corrected)
		require.Len(t, summary.Results, 1)
		assert.True(t, summary.Results[0].Corrected)
		assert.True(t, summary.Results[0].OldStock.Equal(decimal.NewFromInt(12)))
		assert.True(t, summary.Results[0].NewStock.Equal(decimal.NewFromInt(7)))

		st := s.stocks[pairKey{"p1", "b1"}]
		assert.True(t, st.Quantity.Equal(decimal.NewFromInt(7)))
		assert.True(t, st.ReservedQuantity.IsZero())
		assert.Empty(t, s.created, "el recálculo no asienta ajustes")
	})

	t.Run("NuncaTocaParesSinMovimientos", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addBranch("b1", "Sucursal Central")
		s.setStock("p1", "b1", 5, 0)

		summary, err := newRecalculateUseCase(s).RecalculateAll(context.Background(), testOrgID)
		require.NoError(t, err)

		assert.Equal(t, 0, summary.Examined)
		assert.Empty(t, summary.Results)
		assert.True(t, s.stocks[pairKey{"p1", "b1"}].Quantity.Equal(decimal.NewFromInt(5)))
	})

	t.Run("SnapshotYaCorrectoNoSeReescribe", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addBranch("b1", "Sucursal Central")
		seedPair(s, "p1", "b1")
		s.setStock("p1", "b1", 7, 2)

		summary, err := newRecalculateUseCase(s).RecalculateAll(context.Background(), testOrgID)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.Examined)
		assert.Equal(t, 0, summary.Corrected)
		assert.Zero(t, s.upserts)
		assert.True(t, s.stocks[pairKey{"p1", "b1"}].ReservedQuantity.Equal(decimal.NewFromInt(2)))
	})

	t.Run("FallaEnUnParNoDetieneElResto", func(t *testing.T) {
		s := newFakeStore()
		s.addProduct("p1", "Cemento gris")
		s.addProduct("p2", "Varilla 3/8")
		s.addBranch("b1", "Sucursal Central")
		seedPair(s, "p1", "b1")
		seedPair(s, "p2", "b1")
		s.setStock("p1", "b1", 1, 0)
		s.setStock("p2", "b1", 2, 0)
		s.failUpsertFor[pairKey{"p1", "b1"}] = true

		summary, err := newRecalculateUseCase(s).RecalculateAll(context.Background(), testOrgID)
		require.NoError(t, err)

		assert.Equal(t, 2, summary.Examined)
		assert.Equal(t, 1, summary.Corrected)
		assert.Equal(t, 1, summary.Failed)
		for _, r := range summary.Results {
			if r.ProductID == "p1" {
				assert.NotEmpty(t, r.Error)
				assert.False(t, r.Corrected)
			} else {
				assert.True(t, r.Corrected)
			}
		}
	})
}

type fakeProber struct {
	readErr   map[string]error
	insertErr error
}

func (p *fakeProber) ProbeRead(_ context.Context, table, _ string) error { return p.readErr[table] }
func (p *fakeProber) ProbeMovementInsert(_ context.Context) error        { return p.insertErr }

type fakeSettingsRepo struct {
	settings *entity.OrganizationSettings
	err      error
}

func (r *fakeSettingsRepo) Get(string) (*entity.OrganizationSettings, error) {
	return r.settings, r.err
}
func (r *fakeSettingsRepo) Upsert(*entity.OrganizationSettings) error { return nil }

type fakeUserRepo struct {
	user *entity.User
	err  error
}

func (r *fakeUserRepo) Create(*entity.User) error { return nil }
func (r *fakeUserRepo) GetByID(string) (*entity.User, error) {
	return r.user, r.err
}
func (r *fakeUserRepo) GetByEmail(string) (*entity.User, error) { return r.user, r.err }
func (r *fakeUserRepo) Update(*entity.User) error               { return nil }
func (r *fakeUserRepo) ListByOrganization(string, int, int) ([]*entity.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) Delete(string) error { return nil }

func TestRunDiagnostics(t *testing.T) {
	t.Run("ReportaAccesoPorTabla", func(t *testing.T) {
		prober := &fakeProber{readErr: map[string]error{"stock": errors.New("permission denied for table stock")}}
		settings := &fakeSettingsRepo{settings: &entity.OrganizationSettings{
			OrganizationID: testOrgID, InventoryEnabled: true, AutoDeductEnabled: true,
		}}
		uc := NewDiagnosticsUseCase(prober, settings, &fakeUserRepo{}, logger.NewNop())

		report := uc.RunDiagnostics(context.Background(), testOrgID)

		require.Len(t, report.Tables, 5)
		byTable := make(map[string]TableAccess)
		for _, ta := range report.Tables {
			byTable[ta.Table] = ta
		}
		assert.False(t, byTable["stock"].CanRead)
		assert.Contains(t, byTable["stock"].Error, "permission denied")
		assert.True(t, byTable["inventory_movements"].CanRead)
		require.NotNil(t, byTable["inventory_movements"].CanInsert)
		assert.True(t, *byTable["inventory_movements"].CanInsert)
		assert.Nil(t, byTable["products"].CanInsert)

		assert.True(t, report.Settings.Exists)
		assert.True(t, report.Settings.InventoryEnabled)
	})

	t.Run("FallaDeInsercionSeReportaNoSePropaga", func(t *testing.T) {
		prober := &fakeProber{insertErr: errors.New("permission denied")}
		uc := NewDiagnosticsUseCase(prober, &fakeSettingsRepo{}, &fakeUserRepo{}, logger.NewNop())

		report := uc.RunDiagnostics(context.Background(), testOrgID)

		for _, ta := range report.Tables {
			if ta.Table == "inventory_movements" {
				require.NotNil(t, ta.CanInsert)
				assert.False(t, *ta.CanInsert)
			}
		}
	})
}

func TestCheckInventorySettings(t *testing.T) {
	t.Run("SinFilaReportaInexistente", func(t *testing.T) {
		uc := NewDiagnosticsUseCase(&fakeProber{}, &fakeSettingsRepo{}, &fakeUserRepo{}, logger.NewNop())
		check := uc.CheckInventorySettings(context.Background(), testOrgID)
		assert.False(t, check.Exists)
		assert.Empty(t, check.Error)
	})

	t.Run("ErrorDeLecturaQuedaEnElResultado", func(t *testing.T) {
		uc := NewDiagnosticsUseCase(&fakeProber{}, &fakeSettingsRepo{err: errors.New("timeout")}, &fakeUserRepo{}, logger.NewNop())
		check := uc.CheckInventorySettings(context.Background(), testOrgID)
		assert.False(t, check.Exists)
		assert.Contains(t, check.Error, "timeout")
	})
}

func TestCheckUserPermissions(t *testing.T) {
	t.Run("UsuarioEncontrado", func(t *testing.T) {
		users := &fakeUserRepo{user: &entity.User{
			ID: "user-9", OrganizationID: testOrgID, Email: "admin@ferreteria.do", Role: entity.RoleAdmin,
		}}
		uc := NewDiagnosticsUseCase(&fakeProber{}, &fakeSettingsRepo{}, users, logger.NewNop())

		check := uc.CheckUserPermissions(context.Background(), "user-9")
		assert.True(t, check.Found)
		assert.Equal(t, testOrgID, check.OrganizationID)
		assert.Equal(t, entity.RoleAdmin, check.Role)
	})

	t.Run("UsuarioInexistente", func(t *testing.T) {
		uc := NewDiagnosticsUseCase(&fakeProber{}, &fakeSettingsRepo{}, &fakeUserRepo{}, logger.NewNop())
		check := uc.CheckUserPermissions(context.Background(), "no-such-user")
		assert.False(t, check.Found)
		assert.Empty(t, check.Error)
	})
}
