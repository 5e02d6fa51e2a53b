package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

var _ repository.SalesSummaryRepository = (*SalesSummaryRepo)(nil)

// SalesSummaryRepo implementación del resumen diario de ventas y el cursor del
// agregador sobre PostgreSQL (usable con pool o tx).
type SalesSummaryRepo struct {
	q Querier
}

// NewSalesSummaryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesSummaryRepository(q Querier) *SalesSummaryRepo {
	return &SalesSummaryRepo{q: q}
}

// AddSold acumula unidades vendidas en el bucket (producto, bodega, fecha).
// El upsert suma, nunca reemplaza: el bucket solo crece.
func (r *SalesSummaryRepo) AddSold(productID, warehouseID string, saleDate time.Time, qty decimal.Decimal) error {
	query := `
		INSERT INTO daily_sales_summary (product_id, warehouse_id, sale_date, quantity_sold, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, warehouse_id, sale_date)
		DO UPDATE SET quantity_sold = daily_sales_summary.quantity_sold + EXCLUDED.quantity_sold, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, productID, warehouseID, saleDate, qty)
	if err != nil {
		return fmt.Errorf("add sold: %w", err)
	}
	return nil
}

// ListByPair lista los buckets del par en el rango [from, to].
func (r *SalesSummaryRepo) ListByPair(ctx context.Context, productID, warehouseID string, from, to time.Time) ([]*entity.DailySalesSummary, error) {
	query := `
		SELECT product_id, warehouse_id, sale_date, quantity_sold, updated_at
		FROM daily_sales_summary
		WHERE product_id = $1 AND warehouse_id = $2 AND sale_date >= $3 AND sale_date <= $4
		ORDER BY sale_date`
	rows, err := r.q.Query(ctx, query, productID, warehouseID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sales summary: %w", err)
	}
	defer rows.Close()
	var list []*entity.DailySalesSummary
	for rows.Next() {
		var s entity.DailySalesSummary
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.SaleDate, &s.QuantitySold, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sales summary: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// SumSoldSince devuelve el total vendido del par desde la fecha dada
// (inclusive); COALESCE a cero cuando no hay filas.
func (r *SalesSummaryRepo) SumSoldSince(ctx context.Context, productID, warehouseID string, since time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity_sold), 0)
		FROM daily_sales_summary
		WHERE product_id = $1 AND warehouse_id = $2 AND sale_date >= $3`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID, warehouseID, since).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum sold since: %w", err)
	}
	return total, nil
}

// GetCursorForUpdate bloquea y devuelve la marca de agua del agregador.
// La fila única se materializa en cero la primera vez.
func (r *SalesSummaryRepo) GetCursorForUpdate() (int64, error) {
	insert := `
		INSERT INTO aggregator_cursor (id, last_seq, updated_at)
		VALUES (1, 0, now())
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert); err != nil {
		return 0, fmt.Errorf("ensure aggregator cursor: %w", err)
	}
	var seq int64
	err := r.q.QueryRow(context.Background(),
		`SELECT last_seq FROM aggregator_cursor WHERE id = 1 FOR UPDATE`).Scan(&seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get aggregator cursor: %w", err)
	}
	return seq, nil
}

// SetCursor avanza la marca de agua (misma tx que los upserts del resumen).
func (r *SalesSummaryRepo) SetCursor(seq int64) error {
	query := `UPDATE aggregator_cursor SET last_seq = $1, updated_at = now() WHERE id = 1`
	if _, err := r.q.Exec(context.Background(), query, seq); err != nil {
		return fmt.Errorf("set aggregator cursor: %w", err)
	}
	return nil
}
