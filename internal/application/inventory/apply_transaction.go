package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// ApplyTransactionUseCase aplica transacciones de stock de forma atómica:
// bloquea la fila de stock_levels (SELECT FOR UPDATE), verifica invariantes,
// actualiza el nivel denormalizado y apendea la entrada del ledger en la
// misma transacción. Exactamente una fila de stock y una entrada de ledger
// por llamada; nunca escrituras parciales.
type ApplyTransactionUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewApplyTransactionUseCase construye el caso de uso.
func NewApplyTransactionUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *ApplyTransactionUseCase {
	return &ApplyTransactionUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// TransactionInputDTO entrada para aplicar una transacción de stock.
// Delta lleva el signo: purchase/transfer_in exigen positivo, sale y
// transfer_out negativo, adjustment cualquier signo distinto de cero.
type TransactionInputDTO struct {
	CompanyID     string
	UserID        string
	ProductID     string
	WarehouseID   string
	Type          string
	Delta         decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Notes         string
}

// TransferInputDTO entrada para un traslado entre bodegas.
type TransferInputDTO struct {
	CompanyID       string
	UserID          string
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	Notes           string
}

// validateSign verifica que el signo del delta corresponda a la semántica del tipo.
func validateSign(txType string, delta decimal.Decimal) error {
	switch txType {
	case entity.LedgerTypePurchase, entity.LedgerTypeTransferIn:
		if !delta.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.LedgerTypeSale, entity.LedgerTypeTransferOut:
		if !delta.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.LedgerTypeAdjustment:
		if delta.IsZero() {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// Apply inicia una transacción, bloquea la fila del par producto-bodega,
// aplica el delta y graba la entrada del ledger con before/after.
// Devuelve el ID de la entrada creada.
func (uc *ApplyTransactionUseCase) Apply(ctx context.Context, input TransactionInputDTO) (string, error) {
	if input.ProductID == "" || input.WarehouseID == "" {
		return "", domain.ErrInvalidInput
	}
	if err := validateSign(input.Type, input.Delta); err != nil {
		return "", err
	}

	// Producto y bodega deben existir y pertenecer a la empresa.
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil || product == nil {
		return "", domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return "", domain.ErrForbidden
	}
	wh, _ := uc.warehouseRepo.GetByID(input.WarehouseID)
	if wh == nil || wh.CompanyID != input.CompanyID {
		return "", domain.ErrNotFound
	}

	now := time.Now()
	entryID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		entry, err := applyDelta(r, input.ProductID, input.WarehouseID, input.Type, input.Delta, now)
		if err != nil {
			return err
		}
		entry.ID = entryID
		entry.TransactionID = entryID
		entry.ReferenceType = input.ReferenceType
		entry.ReferenceID = input.ReferenceID
		entry.Notes = input.Notes
		entry.CreatedBy = input.UserID
		return r.Ledger.Append(entry)
	})
	if err != nil {
		return "", err
	}
	return entryID, nil
}

// Transfer resta de la bodega origen y suma en la destino en una sola
// transacción, grabando una entrada transfer_out y una transfer_in que
// comparten TransactionID.
func (uc *ApplyTransactionUseCase) Transfer(ctx context.Context, input TransferInputDTO) (string, error) {
	if input.ProductID == "" || input.FromWarehouseID == "" || input.ToWarehouseID == "" {
		return "", domain.ErrInvalidInput
	}
	if input.FromWarehouseID == input.ToWarehouseID || !input.Quantity.GreaterThan(decimal.Zero) {
		return "", domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil || product == nil {
		return "", domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return "", domain.ErrForbidden
	}
	fromWh, _ := uc.warehouseRepo.GetByID(input.FromWarehouseID)
	toWh, _ := uc.warehouseRepo.GetByID(input.ToWarehouseID)
	if fromWh == nil || toWh == nil || fromWh.CompanyID != input.CompanyID || toWh.CompanyID != input.CompanyID {
		return "", domain.ErrNotFound
	}

	now := time.Now()
	txID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		outEntry, err := applyDelta(r, input.ProductID, input.FromWarehouseID, entity.LedgerTypeTransferOut, input.Quantity.Neg(), now)
		if err != nil {
			return err
		}
		outEntry.TransactionID = txID
		outEntry.Notes = input.Notes
		outEntry.CreatedBy = input.UserID
		if err := r.Ledger.Append(outEntry); err != nil {
			return err
		}

		inEntry, err := applyDelta(r, input.ProductID, input.ToWarehouseID, entity.LedgerTypeTransferIn, input.Quantity, now)
		if err != nil {
			return err
		}
		inEntry.TransactionID = txID
		inEntry.Notes = input.Notes
		inEntry.CreatedBy = input.UserID
		return r.Ledger.Append(inEntry)
	})
	if err != nil {
		return "", err
	}
	return txID, nil
}

// applyDelta bloquea la fila del par (creación perezosa en cero si no existe),
// verifica que el nuevo nivel no quede negativo ni por debajo de lo reservado,
// hace el upsert y arma la entrada del ledger con before/after grabados al
// momento de escribir.
func applyDelta(r TxRepos, productID, warehouseID, txType string, delta decimal.Decimal, now time.Time) (*entity.LedgerEntry, error) {
	level, err := r.Stock.GetForUpdate(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	before := level.Quantity
	after := before.Add(delta)
	if after.LessThan(decimal.Zero) || after.LessThan(level.ReservedQty) {
		return nil, domain.ErrInsufficientStock
	}

	level.Quantity = after
	level.UpdatedAt = now
	if err := r.Stock.Upsert(level); err != nil {
		return nil, err
	}

	return &entity.LedgerEntry{
		ID:             uuid.New().String(),
		ProductID:      productID,
		WarehouseID:    warehouseID,
		Type:           txType,
		QuantityChange: delta,
		QuantityBefore: before,
		QuantityAfter:  after,
		CreatedAt:      now,
	}, nil
}
