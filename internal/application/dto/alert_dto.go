package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
)

// AlertSupplierDTO proveedor sugerido para reordenar (nil si el producto no tiene).
type AlertSupplierDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
}

// ReorderAlertDTO una alerta de bajo stock para un par producto-bodega.
type ReorderAlertDTO struct {
	ProductID         string            `json:"product_id"`
	ProductName       string            `json:"product_name"`
	SKU               string            `json:"sku"`
	WarehouseID       string            `json:"warehouse_id"`
	WarehouseName     string            `json:"warehouse_name"`
	CurrentStock      decimal.Decimal   `json:"current_stock"`
	Threshold         decimal.Decimal   `json:"threshold"`
	AvgDailySales     decimal.Decimal   `json:"avg_daily_sales"`
	DaysUntilStockout *int64            `json:"days_until_stockout"`
	Severity          string            `json:"severity"`
	Supplier          *AlertSupplierDTO `json:"supplier"`
	GeneratedAt       time.Time         `json:"generated_at"`
}

// NewReorderAlertDTO convierte la entidad de dominio al DTO de la API.
func NewReorderAlertDTO(a *entity.ReorderAlert) ReorderAlertDTO {
	out := ReorderAlertDTO{
		ProductID:         a.ProductID,
		ProductName:       a.ProductName,
		SKU:               a.SKU,
		WarehouseID:       a.WarehouseID,
		WarehouseName:     a.WarehouseName,
		CurrentStock:      a.EffectiveStock,
		Threshold:         a.Threshold,
		AvgDailySales:     a.AvgDailySales,
		DaysUntilStockout: a.DaysUntilStockout,
		Severity:          a.Severity,
		GeneratedAt:       a.GeneratedAt,
	}
	if a.SupplierID != "" {
		out.Supplier = &AlertSupplierDTO{ID: a.SupplierID, Name: a.SupplierName, ContactEmail: a.SupplierEmail}
	}
	return out
}
