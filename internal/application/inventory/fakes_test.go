package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
)

// memStore estado compartido de los repos en memoria para tests. El runner
// clona el estado antes del callback y lo restaura si falla, imitando el
// rollback transaccional.
type memStore struct {
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	levels     map[string]*entity.StockLevel
	ledger     []*entity.LedgerEntry
	seq        int64
	components map[string][]*entity.BundleComponent
	summaries  map[string]decimal.Decimal
	cursor     int64
	// pares bloqueados por LockPair; no es estado de datos, así que clone y
	// restore lo dejan intacto y sobrevive al rollback simulado.
	lockedPairs [][2]string
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[string]*entity.Product{},
		warehouses: map[string]*entity.Warehouse{},
		levels:     map[string]*entity.StockLevel{},
		components: map[string][]*entity.BundleComponent{},
		summaries:  map[string]decimal.Decimal{},
	}
}

func pairKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.products {
		p := *v
		c.products[k] = &p
	}
	for k, v := range s.warehouses {
		w := *v
		c.warehouses[k] = &w
	}
	for k, v := range s.levels {
		l := *v
		c.levels[k] = &l
	}
	c.ledger = make([]*entity.LedgerEntry, len(s.ledger))
	for i, e := range s.ledger {
		cp := *e
		c.ledger[i] = &cp
	}
	c.seq = s.seq
	for k, list := range s.components {
		cl := make([]*entity.BundleComponent, len(list))
		for i, bc := range list {
			cp := *bc
			cl[i] = &cp
		}
		c.components[k] = cl
	}
	for k, v := range s.summaries {
		c.summaries[k] = v
	}
	c.cursor = s.cursor
	return c
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.warehouses = from.warehouses
	s.levels = from.levels
	s.ledger = from.ledger
	s.seq = from.seq
	s.components = from.components
	s.summaries = from.summaries
	s.cursor = from.cursor
}

func (s *memStore) addProduct(id, companyID string, isBundle bool) *entity.Product {
	p := &entity.Product{ID: id, CompanyID: companyID, SKU: "SKU-" + id, Name: id, IsBundle: isBundle, IsActive: true}
	s.products[id] = p
	return p
}

func (s *memStore) addWarehouse(id, companyID string) *entity.Warehouse {
	w := &entity.Warehouse{ID: id, CompanyID: companyID, Name: id}
	s.warehouses[id] = w
	return w
}

func (s *memStore) setLevel(productID, warehouseID string, qty, reserved int64) {
	s.levels[pairKey(productID, warehouseID)] = &entity.StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    decimal.NewFromInt(qty),
		ReservedQty: decimal.NewFromInt(reserved),
	}
}

// memProductRepo

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *memProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) Update(p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = p
	return nil
}
func (r *memProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *memProductRepo) ListActiveIDsByCompany(companyID string) ([]string, error) {
	var ids []string
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.IsActive {
			ids = append(ids, p.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
func (r *memProductRepo) Delete(id string) error {
	delete(r.s.products, id)
	return nil
}

// memWarehouseRepo

type memWarehouseRepo struct{ s *memStore }

func (r *memWarehouseRepo) Create(w *entity.Warehouse) error {
	r.s.warehouses[w.ID] = w
	return nil
}
func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.s.warehouses[id], nil
}
func (r *memWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (r *memWarehouseRepo) Delete(id string) error {
	delete(r.s.warehouses, id)
	return nil
}

// memStockRepo

type memStockRepo struct{ s *memStore }

func (r *memStockRepo) Get(productID, warehouseID string) (*entity.StockLevel, error) {
	return r.getOrZero(productID, warehouseID), nil
}
func (r *memStockRepo) GetForUpdate(productID, warehouseID string) (*entity.StockLevel, error) {
	return r.getOrZero(productID, warehouseID), nil
}
func (r *memStockRepo) getOrZero(productID, warehouseID string) *entity.StockLevel {
	if l, ok := r.s.levels[pairKey(productID, warehouseID)]; ok {
		cp := *l
		return &cp
	}
	return &entity.StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    decimal.Zero,
		ReservedQty: decimal.Zero,
	}
}
func (r *memStockRepo) Upsert(level *entity.StockLevel) error {
	cp := *level
	r.s.levels[pairKey(level.ProductID, level.WarehouseID)] = &cp
	return nil
}
func (r *memStockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for _, l := range r.s.levels {
		if l.WarehouseID == warehouseID {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *memStockRepo) ListByProduct(productID string) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for _, l := range r.s.levels {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out, nil
}

// memLedgerRepo

type memLedgerRepo struct{ s *memStore }

func (r *memLedgerRepo) Append(entry *entity.LedgerEntry) error {
	r.s.seq++
	cp := *entry
	cp.Seq = r.s.seq
	r.s.ledger = append(r.s.ledger, &cp)
	return nil
}
func (r *memLedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	for _, e := range r.s.ledger {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}
func (r *memLedgerRepo) ListByPair(productID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.s.ledger {
		if e.ProductID == productID && e.WarehouseID == warehouseID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (r *memLedgerRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.s.ledger {
		if e.WarehouseID == warehouseID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (r *memLedgerRepo) ListSalesAfter(afterSeq int64, limit int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.s.ledger {
		if e.Type == entity.LedgerTypeSale && e.Seq > afterSeq {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memBundleRepo

type memBundleRepo struct{ s *memStore }

func (r *memBundleRepo) LockPair(bundleID, componentID string) error {
	a, b := bundleID, componentID
	if b < a {
		a, b = b, a
	}
	r.s.lockedPairs = append(r.s.lockedPairs, [2]string{a, b})
	return nil
}
func (r *memBundleRepo) AddComponent(c *entity.BundleComponent) error {
	for _, existing := range r.s.components[c.BundleID] {
		if existing.ComponentID == c.ComponentID {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.components[c.BundleID] = append(r.s.components[c.BundleID], &cp)
	return nil
}
func (r *memBundleRepo) RemoveComponent(bundleID, componentID string) error {
	list := r.s.components[bundleID]
	for i, c := range list {
		if c.ComponentID == componentID {
			r.s.components[bundleID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
func (r *memBundleRepo) ListComponents(bundleID string) ([]*entity.BundleComponent, error) {
	return r.s.components[bundleID], nil
}

// memSummaryRepo

type memSummaryRepo struct{ s *memStore }

func summaryKey(productID, warehouseID string, day time.Time) string {
	return productID + "|" + warehouseID + "|" + day.Format("2006-01-02")
}

func (r *memSummaryRepo) AddSold(productID, warehouseID string, saleDate time.Time, qty decimal.Decimal) error {
	k := summaryKey(productID, warehouseID, saleDate)
	r.s.summaries[k] = r.s.summaries[k].Add(qty)
	return nil
}
func (r *memSummaryRepo) ListByPair(ctx context.Context, productID, warehouseID string, from, to time.Time) ([]*entity.DailySalesSummary, error) {
	return nil, nil
}
func (r *memSummaryRepo) SumSoldSince(ctx context.Context, productID, warehouseID string, since time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	prefix := productID + "|" + warehouseID + "|"
	for k, v := range r.s.summaries {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			day, err := time.Parse("2006-01-02", k[len(prefix):])
			if err == nil && !day.Before(since.Truncate(24*time.Hour)) {
				total = total.Add(v)
			}
		}
	}
	return total, nil
}
func (r *memSummaryRepo) GetCursorForUpdate() (int64, error) {
	return r.s.cursor, nil
}
func (r *memSummaryRepo) SetCursor(seq int64) error {
	r.s.cursor = seq
	return nil
}

// memTxRunner clona el estado antes del callback y lo restaura si este
// devuelve error: ningún test observa escrituras parciales.
type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(r TxRepos) error) error {
	snapshot := t.s.clone()
	repos := TxRepos{
		Ledger:    &memLedgerRepo{s: t.s},
		Stock:     &memStockRepo{s: t.s},
		Bundles:   &memBundleRepo{s: t.s},
		Summaries: &memSummaryRepo{s: t.s},
	}
	if err := fn(repos); err != nil {
		t.s.restore(snapshot)
		return err
	}
	return nil
}
