package postgres

import (
	"context"
	"fmt"

	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

var _ repository.BundleRepository = (*BundleRepo)(nil)

// BundleRepo implementación de BundleRepository sobre PostgreSQL (usable con pool o tx).
type BundleRepo struct {
	q Querier
}

// NewBundleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBundleRepository(q Querier) *BundleRepo {
	return &BundleRepo{q: q}
}

// LockPair toma FOR UPDATE sobre las filas de producto del bundle y del
// componente, ordenadas por id para evitar deadlocks entre altas cruzadas.
func (r *BundleRepo) LockPair(bundleID, componentID string) error {
	query := `SELECT id FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, []string{bundleID, componentID})
	if err != nil {
		return fmt.Errorf("lock bundle pair: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
	}
	return rows.Err()
}

// AddComponent inserta un componente. El par (bundle, componente) es único.
func (r *BundleRepo) AddComponent(component *entity.BundleComponent) error {
	query := `
		INSERT INTO bundle_components (bundle_id, component_id, quantity, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		component.BundleID, component.ComponentID, component.Quantity, component.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("add bundle component: %w", err)
	}
	return nil
}

// RemoveComponent elimina el componente del bundle.
func (r *BundleRepo) RemoveComponent(bundleID, componentID string) error {
	query := `DELETE FROM bundle_components WHERE bundle_id = $1 AND component_id = $2`
	tag, err := r.q.Exec(context.Background(), query, bundleID, componentID)
	if err != nil {
		return fmt.Errorf("remove bundle component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListComponents lista los componentes directos de un bundle.
func (r *BundleRepo) ListComponents(bundleID string) ([]*entity.BundleComponent, error) {
	query := `
		SELECT bundle_id, component_id, quantity, created_at
		FROM bundle_components WHERE bundle_id = $1
		ORDER BY component_id`
	rows, err := r.q.Query(context.Background(), query, bundleID)
	if err != nil {
		return nil, fmt.Errorf("list bundle components: %w", err)
	}
	defer rows.Close()
	var list []*entity.BundleComponent
	for rows.Next() {
		var c entity.BundleComponent
		if err := rows.Scan(&c.BundleID, &c.ComponentID, &c.Quantity, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bundle component: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
