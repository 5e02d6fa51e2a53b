package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para crear un producto. Si WarehouseID viene,
// InitialQuantity inicializa el inventario vía una entrada adjustment del
// ledger, en la misma operación.
type CreateProductRequest struct {
	SKU               string           `json:"sku"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Price             decimal.Decimal  `json:"price"`
	IsBundle          bool             `json:"is_bundle"`
	CategoryID        string           `json:"category_id,omitempty"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
	WarehouseID       string           `json:"warehouse_id,omitempty"`
	InitialQuantity   decimal.Decimal  `json:"initial_quantity,omitempty"`
}

// UpdateProductRequest body para actualizar un producto.
type UpdateProductRequest struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Price             decimal.Decimal  `json:"price"`
	CategoryID        string           `json:"category_id"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold"`
	IsActive          *bool            `json:"is_active"`
}
