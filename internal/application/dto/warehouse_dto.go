package dto

import "github.com/shopspring/decimal"

// CreateWarehouseRequest body para crear una bodega.
type CreateWarehouseRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// CreateCategoryRequest body para crear una categoría.
type CreateCategoryRequest struct {
	Name                     string           `json:"name"`
	Code                     string           `json:"code"`
	LowStockThresholdDefault *decimal.Decimal `json:"low_stock_threshold_default,omitempty"`
}

// CreateSupplierRequest body para crear un proveedor.
type CreateSupplierRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email,omitempty"`
	LeadTimeDays int    `json:"lead_time_days"`
}

// LinkSupplierRequest body para vincular un proveedor a un producto.
type LinkSupplierRequest struct {
	SupplierID  string          `json:"supplier_id"`
	IsPreferred bool            `json:"is_preferred"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}
