package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/inventory"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (IN, OUT, ADJUSTMENT, TRANSFER) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Cada movimiento guarda el stock antes y después (PreviousQuantity/NewQuantity); la
// reconciliación depende de esa cadena.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		branchRepo:  branchRepo,
	}
}

// MovementInputDTO entrada para registrar un movimiento de inventario.
// Para IN/OUT/ADJUSTMENT: ProductID, BranchID, Type, Quantity; UnitCost obligatorio en IN.
// Para TRANSFER: ProductID, FromBranchID, ToBranchID, Type=TRANSFER, Quantity.
type MovementInputDTO struct {
	OrganizationID string
	UserID         string
	ProductID      string
	BranchID       string
	FromBranchID   string
	ToBranchID     string
	Type           string
	Quantity       decimal.Decimal
	UnitCost       *decimal.Decimal
	Notes          string
}

// RegisterMovement inicia una transacción, bloquea la fila de stock (SELECT FOR UPDATE),
// aplica la lógica según tipo (IN/OUT/TRANSFER/ADJUSTMENT) y hace Commit o Rollback.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) error {
	// Validar tipo y campos
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT, entity.MovementTypeADJUSTMENT:
		if input.ProductID == "" || input.BranchID == "" {
			return domain.ErrInvalidInput
		}
		if input.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
		if input.Type == entity.MovementTypeIN && (input.UnitCost == nil || input.UnitCost.LessThan(decimal.Zero)) {
			return domain.ErrInvalidInput
		}
		if input.Type == entity.MovementTypeOUT && input.Quantity.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeTRANSFER:
		if input.ProductID == "" || input.FromBranchID == "" || input.ToBranchID == "" {
			return domain.ErrInvalidInput
		}
		if input.FromBranchID == input.ToBranchID || !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}

	// Validar que producto y sucursal(es) existan y sean de la organización
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	if product.OrganizationID != input.OrganizationID {
		return domain.ErrForbidden
	}
	if !product.IsInventoryTracked {
		return domain.ErrInvalidInput
	}

	if input.Type == entity.MovementTypeTRANSFER {
		from, _ := uc.branchRepo.GetByID(input.FromBranchID)
		to, _ := uc.branchRepo.GetByID(input.ToBranchID)
		if from == nil || to == nil || from.OrganizationID != input.OrganizationID || to.OrganizationID != input.OrganizationID {
			return domain.ErrNotFound
		}
	} else {
		b, _ := uc.branchRepo.GetByID(input.BranchID)
		if b == nil || b.OrganizationID != input.OrganizationID {
			return domain.ErrNotFound
		}
	}

	now := time.Now()
	refID := uuid.New().String()

	return uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		switch input.Type {
		case entity.MovementTypeIN:
			return uc.doIN(movRepo, stockRepo, productRepo, product, input, now, refID)
		case entity.MovementTypeOUT:
			return uc.doOUT(movRepo, stockRepo, input, now, refID)
		case entity.MovementTypeADJUSTMENT:
			return uc.doADJUSTMENT(movRepo, stockRepo, productRepo, product, input, now, refID)
		case entity.MovementTypeTRANSFER:
			return uc.doTRANSFER(movRepo, stockRepo, input, now, refID)
		}
		return domain.ErrInvalidInput
	})
}

// applyStock actualiza el snapshot a newQty y registra el movimiento con la cadena
// PreviousQuantity -> NewQuantity. stock ya debe estar bloqueado con GetForUpdate.
func applyStock(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	stock *entity.Stock,
	mov *entity.InventoryMovement,
	now time.Time,
) error {
	mov.PreviousQuantity = stock.Quantity
	mov.NewQuantity = stock.Quantity.Add(mov.Quantity)

	stock.Quantity = mov.NewQuantity
	stock.LastMovementDate = &now
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}
	return movRepo.Create(mov)
}

// doIN: bloquea fila, CostCalculator, actualiza costo promedio del producto, suma stock.
func (uc *RegisterMovementUseCase) doIN(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	input MovementInputDTO,
	now time.Time, refID string,
) error {
	stock, err := stockRepo.GetForUpdate(input.ProductID, input.BranchID)
	if err != nil {
		return err
	}
	unitCost := *input.UnitCost
	newCost := inventory.CostCalculator(stock.Quantity, product.Cost, input.Quantity, unitCost)
	if err := productRepo.UpdateCost(input.ProductID, newCost); err != nil {
		return err
	}

	mov := &entity.InventoryMovement{
		OrganizationID: input.OrganizationID,
		ProductID:      input.ProductID,
		BranchID:       input.BranchID,
		Type:           entity.MovementTypeIN,
		Quantity:       input.Quantity,
		ReferenceType:  entity.ReferenceTypeManual,
		ReferenceID:    refID,
		Notes:          input.Notes,
		MovementDate:   now,
		CreatedBy:      input.UserID,
	}
	return applyStock(movRepo, stockRepo, stock, mov, now)
}

// doOUT: bloquea fila, verifica disponible, resta cantidad.
func (uc *RegisterMovementUseCase) doOUT(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	input MovementInputDTO,
	now time.Time, refID string,
) error {
	stock, err := stockRepo.GetForUpdate(input.ProductID, input.BranchID)
	if err != nil {
		return err
	}
	if stock.Quantity.LessThan(input.Quantity) {
		return domain.ErrInsufficientStock
	}
	mov := &entity.InventoryMovement{
		OrganizationID: input.OrganizationID,
		ProductID:      input.ProductID,
		BranchID:       input.BranchID,
		Type:           entity.MovementTypeOUT,
		Quantity:       input.Quantity.Neg(),
		ReferenceType:  entity.ReferenceTypeManual,
		ReferenceID:    refID,
		Notes:          input.Notes,
		MovementDate:   now,
		CreatedBy:      input.UserID,
	}
	return applyStock(movRepo, stockRepo, stock, mov, now)
}

// doADJUSTMENT: delta positivo o negativo, sin verificar disponible (un ajuste
// justamente corrige un conteo, puede dejar el stock en cualquier valor >= 0).
func (uc *RegisterMovementUseCase) doADJUSTMENT(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	input MovementInputDTO,
	now time.Time, refID string,
) error {
	stock, err := stockRepo.GetForUpdate(input.ProductID, input.BranchID)
	if err != nil {
		return err
	}
	if stock.Quantity.Add(input.Quantity).LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	// Un ajuste positivo con costo recalcula el promedio como una entrada.
	if input.Quantity.GreaterThan(decimal.Zero) && input.UnitCost != nil {
		newCost := inventory.CostCalculator(stock.Quantity, product.Cost, input.Quantity, *input.UnitCost)
		if err := productRepo.UpdateCost(input.ProductID, newCost); err != nil {
			return err
		}
	}
	mov := &entity.InventoryMovement{
		OrganizationID: input.OrganizationID,
		ProductID:      input.ProductID,
		BranchID:       input.BranchID,
		Type:           entity.MovementTypeADJUSTMENT,
		Quantity:       input.Quantity,
		ReferenceType:  entity.ReferenceTypeManual,
		ReferenceID:    refID,
		Notes:          input.Notes,
		MovementDate:   now,
		CreatedBy:      input.UserID,
	}
	return applyStock(movRepo, stockRepo, stock, mov, now)
}

// doTRANSFER: resta de sucursal origen, suma en sucursal destino, misma transacción;
// guarda dos movimientos enlazados por ReferenceID.
func (uc *RegisterMovementUseCase) doTRANSFER(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	input MovementInputDTO,
	now time.Time, refID string,
) error {
	origin, err := stockRepo.GetForUpdate(input.ProductID, input.FromBranchID)
	if err != nil {
		return err
	}
	if origin.Quantity.LessThan(input.Quantity) {
		return domain.ErrInsufficientStock
	}
	dest, err := stockRepo.GetForUpdate(input.ProductID, input.ToBranchID)
	if err != nil {
		return err
	}

	outMov := &entity.InventoryMovement{
		OrganizationID: input.OrganizationID,
		ProductID:      input.ProductID,
		BranchID:       input.FromBranchID,
		Type:           entity.MovementTypeTRANSFER,
		Quantity:       input.Quantity.Neg(),
		ReferenceType:  entity.ReferenceTypeManual,
		ReferenceID:    refID,
		Notes:          input.Notes,
		MovementDate:   now,
		CreatedBy:      input.UserID,
	}
	if err := applyStock(movRepo, stockRepo, origin, outMov, now); err != nil {
		return err
	}
	inMov := &entity.InventoryMovement{
		OrganizationID: input.OrganizationID,
		ProductID:      input.ProductID,
		BranchID:       input.ToBranchID,
		Type:           entity.MovementTypeTRANSFER,
		Quantity:       input.Quantity,
		ReferenceType:  entity.ReferenceTypeManual,
		ReferenceID:    refID,
		Notes:          input.Notes,
		MovementDate:   now,
		CreatedBy:      input.UserID,
	}
	return applyStock(movRepo, stockRepo, dest, inMov, now)
}

// RegisterOUTInTx ejecuta una salida (OUT) usando los repositorios proporcionados
// (misma transacción del caller). Implementa la interfaz billing.InventoryDeductor
// para la integración facturación-inventario; referenceID es el ID de la factura.
func (uc *RegisterMovementUseCase) RegisterOUTInTx(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	organizationID, productID, branchID, userID string,
	quantity decimal.Decimal,
	now time.Time,
	referenceID string,
) error {
	stock, err := stockRepo.GetForUpdate(productID, branchID)
	if err != nil {
		return err
	}
	if stock.Quantity.LessThan(quantity) {
		return domain.ErrInsufficientStock
	}
	mov := &entity.InventoryMovement{
		OrganizationID: organizationID,
		ProductID:      productID,
		BranchID:       branchID,
		Type:           entity.MovementTypeOUT,
		Quantity:       quantity.Neg(),
		ReferenceType:  entity.ReferenceTypeInvoice,
		ReferenceID:    referenceID,
		MovementDate:   now,
		CreatedBy:      userID,
	}
	return applyStock(movRepo, stockRepo, stock, mov, now)
}
