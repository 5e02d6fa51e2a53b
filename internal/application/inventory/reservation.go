package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// ReservationUseCase reserva y libera stock sobre reserved_qty, acotado por
// 0 <= reserved_qty <= quantity. Las reservas no cambian quantity, por lo que
// no generan entradas en el ledger (decisión de producto documentada).
type ReservationUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *ReservationUseCase {
	return &ReservationUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Reserve aparta qty unidades del disponible. qty debe ser positiva; falla
// con ErrOverReservation si reserved_qty + qty superaría quantity.
func (uc *ReservationUseCase) Reserve(ctx context.Context, companyID, productID, warehouseID string, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.adjustReserved(ctx, companyID, productID, warehouseID, qty)
}

// Release devuelve qty unidades reservadas al disponible. qty debe ser
// positiva; falla con ErrOverReservation si liberaría más de lo reservado.
func (uc *ReservationUseCase) Release(ctx context.Context, companyID, productID, warehouseID string, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.adjustReserved(ctx, companyID, productID, warehouseID, qty.Neg())
}

func (uc *ReservationUseCase) adjustReserved(ctx context.Context, companyID, productID, warehouseID string, delta decimal.Decimal) error {
	if productID == "" || warehouseID == "" || delta.IsZero() {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}
	wh, _ := uc.warehouseRepo.GetByID(warehouseID)
	if wh == nil || wh.CompanyID != companyID {
		return domain.ErrNotFound
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		// Misma disciplina de bloqueo que ApplyTransaction: la fila del par
		// serializa reservas y movimientos concurrentes.
		level, err := r.Stock.GetForUpdate(productID, warehouseID)
		if err != nil {
			return err
		}
		newReserved := level.ReservedQty.Add(delta)
		if newReserved.LessThan(decimal.Zero) || newReserved.GreaterThan(level.Quantity) {
			return domain.ErrOverReservation
		}
		level.ReservedQty = newReserved
		level.UpdatedAt = now
		return r.Stock.Upsert(level)
	})
}
