package repository

import (
	"time"

	"github.com/stockflow/stockflow-api/internal/domain/entity"
)

// LedgerRepository define el puerto de persistencia para el ledger de stock.
// Solo inserta y lee: las entradas son inmutables, no hay Update ni Delete.
type LedgerRepository interface {
	Append(entry *entity.LedgerEntry) error
	GetByID(id string) (*entity.LedgerEntry, error)
	ListByPair(productID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
	// ListSalesAfter devuelve entradas tipo sale con seq > afterSeq en orden
	// de seq ascendente (consumo del agregador de ventas).
	ListSalesAfter(afterSeq int64, limit int) ([]*entity.LedgerEntry, error)
}
