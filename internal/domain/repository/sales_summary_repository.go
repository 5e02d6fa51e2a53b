package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
)

// SalesSummaryRepository define el puerto para el resumen diario de ventas y
// el cursor del agregador. AddSold acumula dentro del bucket (product,
// warehouse, fecha UTC): nunca decrementa.
type SalesSummaryRepository interface {
	AddSold(productID, warehouseID string, saleDate time.Time, qty decimal.Decimal) error
	ListByPair(ctx context.Context, productID, warehouseID string, from, to time.Time) ([]*entity.DailySalesSummary, error)
	// SumSoldSince devuelve el total vendido del par desde la fecha dada
	// (inclusive). Sin filas devuelve cero.
	SumSoldSince(ctx context.Context, productID, warehouseID string, since time.Time) (decimal.Decimal, error)

	// Cursor del agregador (marca de agua sobre ledger_entries.seq).
	GetCursorForUpdate() (int64, error)
	SetCursor(seq int64) error
}
