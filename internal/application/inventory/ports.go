package inventory

import (
	"context"

	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Ledger    repository.LedgerRepository
	Stock     repository.StockLevelRepository
	Bundles   repository.BundleRepository
	Summaries repository.SalesSummaryRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: Commit si fn retorna nil, Rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
