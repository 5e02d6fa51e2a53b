package alerts

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/application/inventory"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	domaininv "github.com/stockflow/stockflow-api/internal/domain/inventory"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// Config parámetros del motor de alertas. El umbral global por defecto es
// configuración explícita, nunca un fallback implícito en el código.
type Config struct {
	DefaultThreshold decimal.Decimal // usado cuando ni producto ni categoría definen umbral
	LookbackDays     int             // ventana de velocidad de ventas
	CriticalAt       decimal.Decimal // severidad critical cuando stock efectivo <= este valor
	CacheTTL         time.Duration   // TTL del snapshot de alertas (0 = sin cache)
}

// ReorderAlertUseCase combina stock efectivo, velocidad de ventas y la cadena
// de umbrales (producto → categoría → default global) para producir alertas de
// reorden. Lee snapshots consistentes; tolera rezago del agregador.
type ReorderAlertUseCase struct {
	companyRepo   repository.CompanyRepository
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	warehouseRepo repository.WarehouseRepository
	supplierRepo  repository.SupplierRepository
	summaryRepo   repository.SalesSummaryRepository
	effectiveUC   *inventory.EffectiveStockUseCase
	notifier      Notifier   // opcional
	cache         AlertCache // opcional
	cfg           Config
	log           zerolog.Logger
}

// NewReorderAlertUseCase construye el motor. notifier y cache pueden ser nil.
func NewReorderAlertUseCase(
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	warehouseRepo repository.WarehouseRepository,
	supplierRepo repository.SupplierRepository,
	summaryRepo repository.SalesSummaryRepository,
	effectiveUC *inventory.EffectiveStockUseCase,
	notifier Notifier,
	cache AlertCache,
	cfg Config,
	log zerolog.Logger,
) *ReorderAlertUseCase {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 30
	}
	return &ReorderAlertUseCase{
		companyRepo:   companyRepo,
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
		summaryRepo:   summaryRepo,
		effectiveUC:   effectiveUC,
		notifier:      notifier,
		cache:         cache,
		cfg:           cfg,
		log:           log,
	}
}

// resolveThreshold aplica la cadena: umbral del producto → default de la
// categoría → default global configurado.
func (uc *ReorderAlertUseCase) resolveThreshold(product *entity.Product) decimal.Decimal {
	if product.LowStockThreshold != nil {
		return *product.LowStockThreshold
	}
	if product.CategoryID != "" {
		if cat, err := uc.categoryRepo.GetByID(product.CategoryID); err == nil && cat != nil && cat.LowStockThresholdDefault != nil {
			return *cat.LowStockThresholdDefault
		}
	}
	return uc.cfg.DefaultThreshold
}

// ComputeAlert evalúa un par producto-bodega. Devuelve nil si no hay alerta.
func (uc *ReorderAlertUseCase) ComputeAlert(ctx context.Context, companyID, productID, warehouseID string, lookbackDays int) (*entity.ReorderAlert, error) {
	if lookbackDays <= 0 {
		lookbackDays = uc.cfg.LookbackDays
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	warehouse, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil || warehouse == nil {
		return nil, domain.ErrNotFound
	}

	threshold := uc.resolveThreshold(product)

	effective, err := uc.effectiveUC.EffectiveStock(ctx, companyID, productID, warehouseID)
	if err != nil {
		return nil, err
	}

	// Velocidad: total vendido en la ventana / días de ventana. Los días sin
	// fila en el resumen cuentan como cero vendido, no como faltantes. El
	// corte va a medianoche UTC, igual que los buckets de sale_date.
	now := time.Now().UTC()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -lookbackDays)
	totalSold, err := uc.summaryRepo.SumSoldSince(ctx, productID, warehouseID, since)
	if err != nil {
		return nil, err
	}
	velocity := domaininv.AvgDailyVelocity(totalSold, lookbackDays)

	var daysLeft *int64
	if days, ok := domaininv.DaysOfStockRemaining(effective, velocity); ok {
		daysLeft = &days
	}

	supplier, err := uc.supplierRepo.GetPreferredByProduct(productID)
	if err != nil {
		return nil, err
	}

	fires := effective.LessThanOrEqual(threshold)
	if !fires && daysLeft != nil && supplier != nil && *daysLeft < int64(supplier.LeadTimeDays) {
		fires = true
	}
	if !fires {
		return nil, nil
	}

	severity := entity.SeverityWarning
	if effective.LessThanOrEqual(uc.cfg.CriticalAt) {
		severity = entity.SeverityCritical
	}

	alert := &entity.ReorderAlert{
		ProductID:         product.ID,
		ProductName:       product.Name,
		SKU:               product.SKU,
		WarehouseID:       warehouse.ID,
		WarehouseName:     warehouse.Name,
		EffectiveStock:    effective,
		Threshold:         threshold,
		AvgDailySales:     velocity,
		DaysUntilStockout: daysLeft,
		Severity:          severity,
		GeneratedAt:       time.Now().UTC(),
	}
	if supplier != nil {
		alert.SupplierID = supplier.SupplierID
		alert.SupplierName = supplier.Name
		alert.SupplierEmail = supplier.ContactEmail
	}
	return alert, nil
}

// ComputeAlerts barre los productos activos de la empresa contra sus bodegas
// (o solo warehouseID si viene). Un par que falla se loguea y se salta: nunca
// aborta el barrido completo. El resultado va ordenado por días hasta quiebre
// ascendente, con los "sin riesgo" (velocidad cero) al final.
func (uc *ReorderAlertUseCase) ComputeAlerts(ctx context.Context, companyID, warehouseID string) ([]entity.ReorderAlert, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	if !company.IsActive {
		return nil, domain.ErrNotFound
	}

	if uc.cache != nil {
		if cached, ok, err := uc.cache.Get(ctx, companyID, warehouseID); err == nil && ok {
			return cached, nil
		}
	}

	var warehouses []*entity.Warehouse
	if warehouseID != "" {
		wh, err := uc.warehouseRepo.GetByID(warehouseID)
		if err != nil || wh == nil || wh.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		warehouses = append(warehouses, wh)
	} else {
		warehouses, err = uc.warehouseRepo.ListByCompany(companyID, 1000, 0)
		if err != nil {
			return nil, err
		}
	}

	productIDs, err := uc.productRepo.ListActiveIDsByCompany(companyID)
	if err != nil {
		return nil, err
	}

	alerts := make([]entity.ReorderAlert, 0)
	for _, wh := range warehouses {
		for _, pid := range productIDs {
			alert, err := uc.ComputeAlert(ctx, companyID, pid, wh.ID, uc.cfg.LookbackDays)
			if err != nil {
				// Aislamiento por par: el resto del barrido continúa.
				uc.log.Error().Err(err).
					Str("product_id", pid).
					Str("warehouse_id", wh.ID).
					Msg("cálculo de alerta falló para el par")
				continue
			}
			if alert != nil {
				alerts = append(alerts, *alert)
			}
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		switch {
		case a.DaysUntilStockout == nil && b.DaysUntilStockout == nil:
			return a.EffectiveStock.LessThan(b.EffectiveStock)
		case a.DaysUntilStockout == nil:
			return false // nulls last
		case b.DaysUntilStockout == nil:
			return true
		default:
			return *a.DaysUntilStockout < *b.DaysUntilStockout
		}
	})

	if uc.notifier != nil && len(alerts) > 0 {
		if err := uc.notifier.PublishAlerts(ctx, companyID, alerts); err != nil {
			uc.log.Error().Err(err).Str("company_id", companyID).Msg("publicación de alertas falló")
		}
	}
	if uc.cache != nil && uc.cfg.CacheTTL > 0 {
		if err := uc.cache.Set(ctx, companyID, warehouseID, alerts, uc.cfg.CacheTTL); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo cachear el snapshot de alertas")
		}
	}
	return alerts, nil
}
