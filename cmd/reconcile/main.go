package main

import (
	"context"
	"flag"

	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/infrastructure/postgres"
	"github.com/stockflow/stockflow-api/pkg/config"
	"github.com/stockflow/stockflow-api/pkg/logger"
)

// Herramienta de reconciliación: el ledger es la fuente de verdad, así que
// para cada par (producto, bodega) el quantity denormalizado de stock_levels
// debe ser igual a la suma de quantity_change de sus entradas. Reporta los
// pares con deriva y, con -fix, los corrige reescribiendo el nivel desde el
// ledger.

type drift struct {
	ProductID   string
	WarehouseID string
	LedgerQty   decimal.Decimal
	LevelQty    decimal.Decimal
}

func main() {
	fix := flag.Bool("fix", false, "corregir los niveles con deriva reescribiéndolos desde el ledger")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	drifts, err := findDrift(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("calcular deriva")
	}
	if len(drifts) == 0 {
		log.Info().Msg("sin deriva: stock_levels coincide con el ledger")
		return
	}

	for _, d := range drifts {
		log.Warn().
			Str("product_id", d.ProductID).
			Str("warehouse_id", d.WarehouseID).
			Str("ledger_qty", d.LedgerQty.String()).
			Str("level_qty", d.LevelQty.String()).
			Msg("deriva detectada")
	}
	log.Info().Int("pares", len(drifts)).Msg("pares con deriva")

	if !*fix {
		return
	}
	fixed, err := repairDrift(ctx, pool, drifts)
	if err != nil {
		log.Fatal().Err(err).Msg("corregir deriva")
	}
	log.Info().Int("corregidos", fixed).Msg("niveles reescritos desde el ledger")
}

// findDrift compara la suma del ledger contra el nivel denormalizado.
// Incluye pares con entradas pero sin fila de stock (nivel implícito en cero).
func findDrift(ctx context.Context, q postgres.Querier) ([]drift, error) {
	query := `
		SELECT l.product_id, l.warehouse_id,
			COALESCE(SUM(l.quantity_change), 0) AS ledger_qty,
			COALESCE(MAX(s.quantity), 0) AS level_qty
		FROM ledger_entries l
		LEFT JOIN stock_levels s
			ON s.product_id = l.product_id AND s.warehouse_id = l.warehouse_id
		GROUP BY l.product_id, l.warehouse_id
		HAVING COALESCE(SUM(l.quantity_change), 0) <> COALESCE(MAX(s.quantity), 0)
		ORDER BY l.product_id, l.warehouse_id`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []drift
	for rows.Next() {
		var d drift
		if err := rows.Scan(&d.ProductID, &d.WarehouseID, &d.LedgerQty, &d.LevelQty); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// repairDrift reescribe cada nivel con la suma del ledger. La reserva se
// acota al nuevo quantity para mantener reserved_qty <= quantity.
func repairDrift(ctx context.Context, q postgres.Querier, drifts []drift) (int, error) {
	query := `
		INSERT INTO stock_levels (product_id, warehouse_id, quantity, reserved_qty, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
			reserved_qty = LEAST(stock_levels.reserved_qty, EXCLUDED.quantity),
			updated_at = now()`
	fixed := 0
	for _, d := range drifts {
		if _, err := q.Exec(ctx, query, d.ProductID, d.WarehouseID, d.LedgerQty); err != nil {
			return fixed, err
		}
		fixed++
	}
	return fixed, nil
}
