package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// StockQueryUseCase lecturas de stock e historial del ledger, con validación
// de pertenencia a la empresa. Solo lee; nunca escribe niveles ni ledger.
type StockQueryUseCase struct {
	stockRepo     repository.StockLevelRepository
	ledgerRepo    repository.LedgerRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	effective     *EffectiveStockUseCase
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(
	stockRepo repository.StockLevelRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	effective *EffectiveStockUseCase,
) *StockQueryUseCase {
	return &StockQueryUseCase{
		stockRepo:     stockRepo,
		ledgerRepo:    ledgerRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		effective:     effective,
	}
}

// GetStock devuelve el nivel del par y su stock efectivo (bundles resueltos).
// Pares sin movimientos devuelven nivel en cero, no error.
func (uc *StockQueryUseCase) GetStock(ctx context.Context, companyID, productID, warehouseID string) (*entity.StockLevel, decimal.Decimal, error) {
	if err := uc.checkPair(companyID, productID, warehouseID); err != nil {
		return nil, decimal.Zero, err
	}
	level, err := uc.stockRepo.Get(productID, warehouseID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	eff, err := uc.effective.EffectiveStock(ctx, companyID, productID, warehouseID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return level, eff, nil
}

// LedgerByPair devuelve el historial del par, opcionalmente acotado por fechas.
func (uc *StockQueryUseCase) LedgerByPair(ctx context.Context, companyID, productID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	if err := uc.checkPair(companyID, productID, warehouseID); err != nil {
		return nil, err
	}
	return uc.ledgerRepo.ListByPair(productID, warehouseID, from, to, limit, offset)
}

// LedgerByWarehouse devuelve el historial completo de una bodega.
func (uc *StockQueryUseCase) LedgerByWarehouse(ctx context.Context, companyID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil || wh.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return uc.ledgerRepo.ListByWarehouse(warehouseID, from, to, limit, offset)
}

func (uc *StockQueryUseCase) checkPair(companyID, productID, warehouseID string) error {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if wh == nil || wh.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}
