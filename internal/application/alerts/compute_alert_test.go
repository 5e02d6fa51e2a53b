package alerts

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stockflow/stockflow-api/internal/application/inventory"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// alertStore estado compartido de los fakes del motor de alertas.
type alertStore struct {
	companies  map[string]*entity.Company
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	warehouses map[string]*entity.Warehouse
	preferred  map[string]*repository.PreferredSupplier
	levels     map[string]*entity.StockLevel
	components map[string][]*entity.BundleComponent
	sold       map[string]decimal.Decimal // productID|warehouseID → total en la ventana
	lastSince  time.Time                  // último corte pedido a SumSoldSince
}

func newAlertStore() *alertStore {
	return &alertStore{
		companies:  map[string]*entity.Company{},
		products:   map[string]*entity.Product{},
		categories: map[string]*entity.Category{},
		warehouses: map[string]*entity.Warehouse{},
		preferred:  map[string]*repository.PreferredSupplier{},
		levels:     map[string]*entity.StockLevel{},
		components: map[string][]*entity.BundleComponent{},
		sold:       map[string]decimal.Decimal{},
	}
}

func (s *alertStore) pair(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func (s *alertStore) setStock(productID, warehouseID string, qty int64) {
	s.levels[s.pair(productID, warehouseID)] = &entity.StockLevel{
		ProductID: productID, WarehouseID: warehouseID,
		Quantity: decimal.NewFromInt(qty), ReservedQty: decimal.Zero,
	}
}

func (s *alertStore) setSold(productID, warehouseID string, total int64) {
	s.sold[s.pair(productID, warehouseID)] = decimal.NewFromInt(total)
}

type faCompanyRepo struct{ s *alertStore }

func (r *faCompanyRepo) Create(c *entity.Company) error            { r.s.companies[c.ID] = c; return nil }
func (r *faCompanyRepo) GetByID(id string) (*entity.Company, error) { return r.s.companies[id], nil }
func (r *faCompanyRepo) List(limit, offset int) ([]*entity.Company, error) { return nil, nil }

type faProductRepo struct{ s *alertStore }

func (r *faProductRepo) Create(p *entity.Product) error             { r.s.products[p.ID] = p; return nil }
func (r *faProductRepo) GetByID(id string) (*entity.Product, error) { return r.s.products[id], nil }
func (r *faProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	return nil, nil
}
func (r *faProductRepo) Update(p *entity.Product) error { return nil }
func (r *faProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *faProductRepo) ListActiveIDsByCompany(companyID string) ([]string, error) {
	var ids []string
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.IsActive {
			ids = append(ids, p.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
func (r *faProductRepo) Delete(id string) error { return nil }

type faCategoryRepo struct{ s *alertStore }

func (r *faCategoryRepo) Create(c *entity.Category) error             { r.s.categories[c.ID] = c; return nil }
func (r *faCategoryRepo) GetByID(id string) (*entity.Category, error) { return r.s.categories[id], nil }
func (r *faCategoryRepo) GetByCompanyAndCode(companyID, code string) (*entity.Category, error) {
	return nil, nil
}
func (r *faCategoryRepo) Update(c *entity.Category) error { return nil }
func (r *faCategoryRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Category, error) {
	return nil, nil
}
func (r *faCategoryRepo) Delete(id string) error { return nil }

type faWarehouseRepo struct{ s *alertStore }

func (r *faWarehouseRepo) Create(w *entity.Warehouse) error { r.s.warehouses[w.ID] = w; return nil }
func (r *faWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.s.warehouses[id], nil
}
func (r *faWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (r *faWarehouseRepo) Delete(id string) error { return nil }

type faSupplierRepo struct{ s *alertStore }

func (r *faSupplierRepo) Create(sup *entity.Supplier) error { return nil }
func (r *faSupplierRepo) GetByID(id string) (*entity.Supplier, error) { return nil, nil }
func (r *faSupplierRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	return nil, nil
}
func (r *faSupplierRepo) LinkProduct(link *entity.ProductSupplier) error { return nil }
func (r *faSupplierRepo) GetPreferredByProduct(productID string) (*repository.PreferredSupplier, error) {
	return r.s.preferred[productID], nil
}

type faSummaryRepo struct{ s *alertStore }

func (r *faSummaryRepo) AddSold(productID, warehouseID string, saleDate time.Time, qty decimal.Decimal) error {
	return nil
}
func (r *faSummaryRepo) ListByPair(ctx context.Context, productID, warehouseID string, from, to time.Time) ([]*entity.DailySalesSummary, error) {
	return nil, nil
}
func (r *faSummaryRepo) SumSoldSince(ctx context.Context, productID, warehouseID string, since time.Time) (decimal.Decimal, error) {
	r.s.lastSince = since
	return r.s.sold[r.s.pair(productID, warehouseID)], nil
}
func (r *faSummaryRepo) GetCursorForUpdate() (int64, error) { return 0, nil }
func (r *faSummaryRepo) SetCursor(seq int64) error          { return nil }

type faStockRepo struct{ s *alertStore }

func (r *faStockRepo) Get(productID, warehouseID string) (*entity.StockLevel, error) {
	if l, ok := r.s.levels[r.s.pair(productID, warehouseID)]; ok {
		return l, nil
	}
	return &entity.StockLevel{ProductID: productID, WarehouseID: warehouseID,
		Quantity: decimal.Zero, ReservedQty: decimal.Zero}, nil
}
func (r *faStockRepo) GetForUpdate(productID, warehouseID string) (*entity.StockLevel, error) {
	return r.Get(productID, warehouseID)
}
func (r *faStockRepo) Upsert(level *entity.StockLevel) error { return nil }
func (r *faStockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockLevel, error) {
	return nil, nil
}
func (r *faStockRepo) ListByProduct(productID string) ([]*entity.StockLevel, error) { return nil, nil }

type faBundleRepo struct{ s *alertStore }

func (r *faBundleRepo) LockPair(bundleID, componentID string) error  { return nil }
func (r *faBundleRepo) AddComponent(c *entity.BundleComponent) error { return nil }
func (r *faBundleRepo) RemoveComponent(bundleID, componentID string) error { return nil }
func (r *faBundleRepo) ListComponents(bundleID string) ([]*entity.BundleComponent, error) {
	return r.s.components[bundleID], nil
}

type captureNotifier struct {
	companyID string
	batches   [][]entity.ReorderAlert
}

func (n *captureNotifier) PublishAlerts(ctx context.Context, companyID string, alerts []entity.ReorderAlert) error {
	n.companyID = companyID
	n.batches = append(n.batches, alerts)
	return nil
}

type mapCache struct {
	data map[string][]entity.ReorderAlert
	sets int
}

func (c *mapCache) Get(ctx context.Context, companyID, warehouseID string) ([]entity.ReorderAlert, bool, error) {
	v, ok := c.data[companyID+"|"+warehouseID]
	return v, ok, nil
}
func (c *mapCache) Set(ctx context.Context, companyID, warehouseID string, alerts []entity.ReorderAlert, ttl time.Duration) error {
	c.data[companyID+"|"+warehouseID] = alerts
	c.sets++
	return nil
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newAlertFixture(cfg Config, notifier Notifier, cache AlertCache) (*alertStore, *ReorderAlertUseCase) {
	s := newAlertStore()
	s.companies["comp-1"] = &entity.Company{ID: "comp-1", Name: "Acme", IsActive: true}
	s.warehouses["wh-1"] = &entity.Warehouse{ID: "wh-1", CompanyID: "comp-1", Name: "Central"}

	effectiveUC := inventory.NewEffectiveStockUseCase(&faProductRepo{s: s}, &faStockRepo{s: s}, &faBundleRepo{s: s})
	uc := NewReorderAlertUseCase(
		&faCompanyRepo{s: s}, &faProductRepo{s: s}, &faCategoryRepo{s: s},
		&faWarehouseRepo{s: s}, &faSupplierRepo{s: s}, &faSummaryRepo{s: s},
		effectiveUC, notifier, cache, cfg, zerolog.Nop(),
	)
	return s, uc
}

func defaultCfg() Config {
	return Config{
		DefaultThreshold: d(10),
		LookbackDays:     30,
		CriticalAt:       decimal.Zero,
	}
}

func addAlertProduct(s *alertStore, id string, threshold *decimal.Decimal, categoryID string) {
	s.products[id] = &entity.Product{
		ID: id, CompanyID: "comp-1", SKU: "SKU-" + id, Name: id,
		LowStockThreshold: threshold, CategoryID: categoryID, IsActive: true,
	}
}

func TestUmbralDelProductoGanaALaCategoria(t *testing.T) {
	catDefault := d(10)
	override := d(3)
	s, uc := newAlertFixture(defaultCfg(), nil, nil)
	s.categories["cat-1"] = &entity.Category{ID: "cat-1", CompanyID: "comp-1", LowStockThresholdDefault: &catDefault}
	addAlertProduct(s, "prod-1", &override, "cat-1")
	s.setStock("prod-1", "wh-1", 5)
	ctx := context.Background()

	// 5 > umbral efectivo 3: la categoría diría alerta, el override no.
	alert, err := uc.ComputeAlert(ctx, "comp-1", "prod-1", "wh-1", 30)
	require.NoError(t, err)
	assert.Nil(t, alert)

	s.setStock("prod-1", "wh-1", 3)
	alert, err = uc.ComputeAlert(ctx, "comp-1", "prod-1", "wh-1", 30)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.True(t, alert.Threshold.Equal(override))
}

func TestUmbralHeredaDeCategoriaYLuegoDelGlobal(t *testing.T) {
	catDefault := d(7)
	s, uc := newAlertFixture(defaultCfg(), nil, nil)
	s.categories["cat-1"] = &entity.Category{ID: "cat-1", CompanyID: "comp-1", LowStockThresholdDefault: &catDefault}
	addAlertProduct(s, "con-cat", nil, "cat-1")
	addAlertProduct(s, "sin-cat", nil, "")
	s.setStock("con-cat", "wh-1", 7)
	s.setStock("sin-cat", "wh-1", 10)
	ctx := context.Background()

	alert, err := uc.ComputeAlert(ctx, "comp-1", "con-cat", "wh-1", 30)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.True(t, alert.Threshold.Equal(catDefault))

	alert, err = uc.ComputeAlert(ctx, "comp-1", "sin-cat", "wh-1", 30)
	require.NoError(t, err)
	require.NotNil(t, alert, "sin producto ni categoría aplica el default global")
	assert.True(t, alert.Threshold.Equal(d(10)))
}

func TestSeveridadCriticalEnElLimite(t *testing.T) {
	s, uc := newAlertFixture(defaultCfg(), nil, nil)
	addAlertProduct(s, "agotado", nil, "")
	addAlertProduct(s, "bajo", nil, "")
	s.setStock("agotado", "wh-1", 0)
	s.setStock("bajo", "wh-1", 4)
	ctx := context.Background()

	alert, err := uc.ComputeAlert(ctx, "comp-1", "agotado", "wh-1", 30)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, entity.SeverityCritical, alert.Severity)

	alert, err = uc.ComputeAlert(ctx, "comp-1", "bajo", "wh-1", 30)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, entity.SeverityWarning, alert.Severity)
}

func TestVentanaDeVelocidadCortaEnMedianocheUTC(t *testing.T) {
	s, uc := newAlertFixture(defaultCfg(), nil, nil)
	addAlertProduct(s, "prod-1", nil, "")
	s.setStock("prod-1", "wh-1", 1)
	ctx := context.Background()

	_, err := uc.ComputeAlert(ctx, "comp-1", "prod-1", "wh-1", 30)
	require.NoError(t, err)

	// El corte de la ventana debe ser una medianoche UTC: sale_date guarda
	// buckets de día completo y un corte con hora dejaría fuera el día más
	// viejo de la ventana.
	now := time.Now().UTC()
	want := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -30)
	assert.True(t, s.lastSince.Equal(want), "corte recibido: %s", s.lastSince)
}

func TestDiasHastaQuiebre(t *testing.T) {
	s, uc := newAlertFixture(defaultCfg(), nil, nil)
	addAlertProduct(s, "prod-1", nil, "")
	s.setStock("prod-1", "wh-1", 10)
	s.setSold("prod-1", "wh-1", 30) // 30 en 30 días → 1/día
	ctx := context.Background()

	alert, err := uc.ComputeAlert(ctx, "comp-1", "prod-1", "wh-1", 30)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.True(t, alert.AvgDailySales.Equal(d(1)))
	require.NotNil(t, alert.DaysUntilStockout)
	assert.Equal(t, int64(10), *alert.DaysUntilStockout)

	// Sin ventas en la ventana: velocidad cero, sin estimación de quiebre.
	addAlertProduct(s, "quieto", nil, "")
	s.setStock("quieto", "wh-1", 2)
	alert, err = uc.ComputeAlert(ctx, "comp-1", "quieto", "wh-1", 30)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Nil(t, alert.DaysUntilStockout)
	assert.True(t, alert.AvgDailySales.IsZero())
}

func TestDisparoPorLeadTimeDelProveedor(t *testing.T) {
	threshold := d(2)
	s, uc := newAlertFixture(defaultCfg(), nil, nil)
	addAlertProduct(s, "prod-1", &threshold, "")
	s.setStock("prod-1", "wh-1", 5) // por encima del umbral
	s.setSold("prod-1", "wh-1", 30) // 1/día → 5 días de stock
	s.preferred["prod-1"] = &repository.PreferredSupplier{
		SupplierID: "sup-1", Name: "Proveedor Uno", ContactEmail: "uno@prov.com", LeadTimeDays: 7,
	}

	alert, err := uc.ComputeAlert(context.Background(), "comp-1", "prod-1", "wh-1", 30)
	require.NoError(t, err)
	require.NotNil(t, alert, "el stock se agota antes de que llegue el reabastecimiento")
	assert.Equal(t, "sup-1", alert.SupplierID)
	assert.Equal(t, entity.SeverityWarning, alert.Severity)
}

func TestComputeAlertsOrdenaPorDiasConNullsAlFinal(t *testing.T) {
	s, uc := newAlertFixture(defaultCfg(), nil, nil)
	addAlertProduct(s, "rapido", nil, "")
	addAlertProduct(s, "lento", nil, "")
	addAlertProduct(s, "quieto", nil, "")
	s.setStock("rapido", "wh-1", 3)
	s.setSold("rapido", "wh-1", 30) // 1/día → 3 días
	s.setStock("lento", "wh-1", 8)
	s.setSold("lento", "wh-1", 30) // 1/día → 8 días
	s.setStock("quieto", "wh-1", 5) // sin ventas → nil

	list, err := uc.ComputeAlerts(context.Background(), "comp-1", "")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "rapido", list[0].ProductID)
	assert.Equal(t, "lento", list[1].ProductID)
	assert.Equal(t, "quieto", list[2].ProductID)
	assert.Nil(t, list[2].DaysUntilStockout)
}

func TestComputeAlertsEmpresaInactiva(t *testing.T) {
	s, uc := newAlertFixture(defaultCfg(), nil, nil)
	s.companies["comp-1"].IsActive = false

	_, err := uc.ComputeAlerts(context.Background(), "comp-1", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComputeAlertsPublicaYCachea(t *testing.T) {
	notifier := &captureNotifier{}
	cache := &mapCache{data: map[string][]entity.ReorderAlert{}}
	cfg := defaultCfg()
	cfg.CacheTTL = time.Minute
	s, uc := newAlertFixture(cfg, notifier, cache)
	addAlertProduct(s, "prod-1", nil, "")
	s.setStock("prod-1", "wh-1", 0)
	ctx := context.Background()

	list, err := uc.ComputeAlerts(ctx, "comp-1", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, notifier.batches, 1)
	assert.Equal(t, "comp-1", notifier.companyID)
	assert.Equal(t, 1, cache.sets)

	// Segunda llamada: sirve del snapshot, no vuelve a publicar.
	list, err = uc.ComputeAlerts(ctx, "comp-1", "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, notifier.batches, 1)
}
