package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/domain"
	domaininv "github.com/stockflow/stockflow-api/internal/domain/inventory"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// EffectiveStockUseCase resuelve el stock efectivo de un producto en una
// bodega. Para productos simples es quantity - reserved_qty; para bundles es
// el mínimo entre componentes de floor(disponible / unidadesPorBundle),
// resuelto recursivamente de abajo hacia arriba. Bundles anidados permitidos;
// un ciclo en los datos devuelve ErrCircularBundle.
type EffectiveStockUseCase struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockLevelRepository
	bundleRepo  repository.BundleRepository
}

// NewEffectiveStockUseCase construye el caso de uso.
func NewEffectiveStockUseCase(
	productRepo repository.ProductRepository,
	stockRepo   repository.StockLevelRepository,
	bundleRepo  repository.BundleRepository,
) *EffectiveStockUseCase {
	return &EffectiveStockUseCase{
		productRepo: productRepo,
		stockRepo:   stockRepo,
		bundleRepo:  bundleRepo,
	}
}

// EffectiveStock devuelve el stock disponible para asignar del producto en la
// bodega, validando pertenencia a la empresa.
func (uc *EffectiveStockUseCase) EffectiveStock(ctx context.Context, companyID, productID, warehouseID string) (decimal.Decimal, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return decimal.Zero, domain.ErrForbidden
	}
	memo := map[string]decimal.Decimal{}
	visiting := map[string]bool{}
	return uc.resolve(ctx, productID, warehouseID, memo, visiting)
}

// resolve calcula recursivamente; memo evita recomputar componentes
// compartidos entre bundles anidados. visiting marca la rama en curso: si un
// ciclo llegó a los datos, corta con ErrCircularBundle en vez de recursar.
func (uc *EffectiveStockUseCase) resolve(ctx context.Context, productID, warehouseID string, memo map[string]decimal.Decimal, visiting map[string]bool) (decimal.Decimal, error) {
	if v, ok := memo[productID]; ok {
		return v, nil
	}
	if visiting[productID] {
		return decimal.Zero, domain.ErrCircularBundle
	}

	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return decimal.Zero, domain.ErrNotFound
	}

	if !product.IsBundle {
		level, err := uc.stockRepo.Get(productID, warehouseID)
		if err != nil {
			return decimal.Zero, err
		}
		avail := domaininv.AvailableStock(level.Quantity, level.ReservedQty)
		memo[productID] = avail
		return avail, nil
	}

	visiting[productID] = true
	defer delete(visiting, productID)

	components, err := uc.bundleRepo.ListComponents(productID)
	if err != nil {
		return decimal.Zero, err
	}
	// Bundle sin componentes: no se puede armar ninguna unidad.
	if len(components) == 0 {
		memo[productID] = decimal.Zero
		return decimal.Zero, nil
	}

	var min decimal.Decimal
	for i, c := range components {
		compAvail, err := uc.resolve(ctx, c.ComponentID, warehouseID, memo, visiting)
		if err != nil {
			return decimal.Zero, err
		}
		buildable := domaininv.UnitsBuildable(compAvail, c.Quantity)
		if i == 0 || buildable.LessThan(min) {
			min = buildable
		}
	}
	memo[productID] = min
	return min, nil
}
