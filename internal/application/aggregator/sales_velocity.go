package aggregator

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stockflow/stockflow-api/internal/application/inventory"
)

// SalesAggregator consume entradas tipo sale del ledger y las acumula en
// daily_sales_summary por (producto, bodega, día calendario UTC).
//
// Idempotencia: el cursor (marca de agua sobre ledger_entries.seq) se bloquea
// y avanza en la misma transacción que los upserts del resumen, así una
// re-ejecución at-least-once arranca del último seq confirmado y nunca cuenta
// doble. Corre como job periódico, nunca síncrono con los requests.
type SalesAggregator struct {
	txRunner  inventory.TxRunner
	batchSize int
	log       zerolog.Logger
}

// NewSalesAggregator construye el agregador. batchSize acota las entradas
// procesadas por corrida.
func NewSalesAggregator(txRunner inventory.TxRunner, batchSize int, log zerolog.Logger) *SalesAggregator {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &SalesAggregator{txRunner: txRunner, batchSize: batchSize, log: log}
}

// RunOnce procesa un lote y devuelve cuántas entradas consumió. Un error hace
// rollback del lote completo; el siguiente tick reintenta desde el cursor.
func (a *SalesAggregator) RunOnce(ctx context.Context) (int, error) {
	processed := 0
	err := a.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		cursor, err := r.Summaries.GetCursorForUpdate()
		if err != nil {
			return err
		}
		entries, err := r.Ledger.ListSalesAfter(cursor, a.batchSize)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		last := cursor
		for _, e := range entries {
			// Magnitud de la venta: el delta de una sale siempre es negativo.
			sold := e.QuantityChange.Neg()
			day := utcDay(e.CreatedAt)
			if err := r.Summaries.AddSold(e.ProductID, e.WarehouseID, day, sold); err != nil {
				return err
			}
			last = e.Seq
		}
		processed = len(entries)
		return r.Summaries.SetCursor(last)
	})
	return processed, err
}

// Run ejecuta RunOnce cada interval hasta que el contexto se cancele.
// Drena lotes consecutivos cuando hay backlog.
func (a *SalesAggregator) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.log.Info().Dur("interval", interval).Msg("agregador de ventas iniciado")
	for {
		select {
		case <-ctx.Done():
			a.log.Info().Msg("agregador de ventas detenido")
			return
		case <-ticker.C:
			for {
				n, err := a.RunOnce(ctx)
				if err != nil {
					a.log.Error().Err(err).Msg("lote de agregación falló; se reintenta en el próximo tick")
					break
				}
				if n < a.batchSize {
					break
				}
			}
		}
	}
}

// utcDay trunca un instante a su día calendario UTC (límite de día documentado:
// UTC, no hora local de la bodega).
func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
