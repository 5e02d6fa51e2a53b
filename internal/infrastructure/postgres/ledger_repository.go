package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del ledger de stock sobre PostgreSQL (usable con
// pool o tx). Solo INSERT y SELECT: no existen UPDATE ni DELETE sobre
// ledger_entries.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, seq, transaction_id, product_id, warehouse_id, type,
	quantity_change, quantity_before, quantity_after,
	reference_type, reference_id, notes, created_by, created_at`

// Append persiste una entrada. seq lo asigna la BD (BIGSERIAL) y se devuelve
// en la entidad.
func (r *LedgerRepo) Append(entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO ledger_entries (id, transaction_id, product_id, warehouse_id, type,
			quantity_change, quantity_before, quantity_after,
			reference_type, reference_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING seq`
	createdBy := (*string)(nil)
	if entry.CreatedBy != "" {
		createdBy = &entry.CreatedBy
	}
	err := r.q.QueryRow(context.Background(), query,
		entry.ID, entry.TransactionID, entry.ProductID, entry.WarehouseID, entry.Type,
		entry.QuantityChange, entry.QuantityBefore, entry.QuantityAfter,
		entry.ReferenceType, entry.ReferenceID, entry.Notes, createdBy, entry.CreatedAt,
	).Scan(&entry.Seq)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *LedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	entry, err := scanLedgerRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return entry, nil
}

// ListByPair lista las entradas de un par producto-bodega en un rango de fechas.
func (r *LedgerRepo) ListByPair(productID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE product_id = $1 AND warehouse_id = $2`
	args := []any{productID, warehouseID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY seq LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(query, args...)
}

// ListByWarehouse lista las entradas de una bodega en un rango de fechas.
func (r *LedgerRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE warehouse_id = $1`
	args := []any{warehouseID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(query, args...)
}

// ListSalesAfter devuelve entradas sale con seq > afterSeq en orden ascendente
// (consumo del agregador de ventas).
func (r *LedgerRepo) ListSalesAfter(afterSeq int64, limit int) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE type = $1 AND seq > $2
		ORDER BY seq
		LIMIT $3`
	return r.list(query, entity.LedgerTypeSale, afterSeq, limit)
}

func (r *LedgerRepo) list(query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, entry)
	}
	return list, rows.Err()
}

func scanLedgerRow(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	var refType, refID, notes, createdBy *string
	err := row.Scan(
		&e.ID, &e.Seq, &e.TransactionID, &e.ProductID, &e.WarehouseID, &e.Type,
		&e.QuantityChange, &e.QuantityBefore, &e.QuantityAfter,
		&refType, &refID, &notes, &createdBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if refType != nil {
		e.ReferenceType = *refType
	}
	if refID != nil {
		e.ReferenceID = *refID
	}
	if notes != nil {
		e.Notes = *notes
	}
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	return &e, nil
}
