package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// BundleUseCase administra la composición de bundles. La detección de ciclos
// corre en escritura (DFS acotado dentro de la misma transacción del insert)
// para que EffectiveStock quede O(componentes) en lectura.
type BundleUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	bundleRepo  repository.BundleRepository
}

// NewBundleUseCase construye el caso de uso.
func NewBundleUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	bundleRepo repository.BundleRepository,
) *BundleUseCase {
	return &BundleUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		bundleRepo:  bundleRepo,
	}
}

// AddComponent agrega un componente al bundle. Rechaza cantidad no positiva,
// auto-referencia, pares duplicados y cualquier inserción que cierre un ciclo
// en el grafo bundle→componente (ErrCircularBundle); en ese caso no queda
// ninguna fila insertada.
func (uc *BundleUseCase) AddComponent(ctx context.Context, companyID, bundleID, componentID string, qty decimal.Decimal) error {
	if bundleID == "" || componentID == "" || !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if bundleID == componentID {
		return domain.ErrCircularBundle
	}

	bundle, err := uc.productRepo.GetByID(bundleID)
	if err != nil || bundle == nil {
		return domain.ErrNotFound
	}
	if bundle.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if !bundle.IsBundle {
		return domain.ErrInvalidInput
	}
	component, err := uc.productRepo.GetByID(componentID)
	if err != nil || component == nil {
		return domain.ErrNotFound
	}
	if component.CompanyID != companyID {
		return domain.ErrForbidden
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		// Serializa altas concurrentes sobre estos productos antes del DFS.
		if err := r.Bundles.LockPair(bundleID, componentID); err != nil {
			return err
		}
		// Si desde el componente se alcanza el bundle, insertar cerraría un ciclo.
		reachable, err := reaches(r.Bundles, componentID, bundleID)
		if err != nil {
			return err
		}
		if reachable {
			return domain.ErrCircularBundle
		}
		return r.Bundles.AddComponent(&entity.BundleComponent{
			BundleID:    bundleID,
			ComponentID: componentID,
			Quantity:    qty,
			CreatedAt:   now,
		})
	})
}

// RemoveComponent elimina un componente del bundle.
func (uc *BundleUseCase) RemoveComponent(ctx context.Context, companyID, bundleID, componentID string) error {
	bundle, err := uc.productRepo.GetByID(bundleID)
	if err != nil || bundle == nil {
		return domain.ErrNotFound
	}
	if bundle.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		return r.Bundles.RemoveComponent(bundleID, componentID)
	})
}

// ListComponents lista los componentes directos de un bundle.
func (uc *BundleUseCase) ListComponents(ctx context.Context, companyID, bundleID string) ([]*entity.BundleComponent, error) {
	bundle, err := uc.productRepo.GetByID(bundleID)
	if err != nil || bundle == nil {
		return nil, domain.ErrNotFound
	}
	if bundle.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return uc.bundleRepo.ListComponents(bundleID)
}

// reaches hace DFS sobre el grafo bundle→componente desde from buscando
// target. visited acota el recorrido aunque el grafo fuera inconsistente.
func reaches(bundles repository.BundleRepository, from, target string) (bool, error) {
	visited := map[string]bool{}
	stack := []string{from}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current == target {
			return true, nil
		}
		if visited[current] {
			continue
		}
		visited[current] = true
		components, err := bundles.ListComponents(current)
		if err != nil {
			return false, err
		}
		for _, c := range components {
			if !visited[c.ComponentID] {
				stack = append(stack, c.ComponentID)
			}
		}
	}
	return false, nil
}
