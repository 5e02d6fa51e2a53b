package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterTransactionRequest body para registrar una transacción de stock.
// Delta lleva el signo según el tipo: purchase/transfer_in positivo,
// sale/transfer_out negativo, adjustment cualquier signo distinto de cero.
type RegisterTransactionRequest struct {
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Type          string          `json:"type"`
	Delta         decimal.Decimal `json:"delta"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// TransferRequest body para trasladar stock entre bodegas.
type TransferRequest struct {
	ProductID       string          `json:"product_id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Notes           string          `json:"notes,omitempty"`
}

// ReservationRequest body para reservar o liberar stock.
type ReservationRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// AddBundleComponentRequest body para agregar un componente a un bundle.
type AddBundleComponentRequest struct {
	ComponentID string          `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// StockLevelDTO respuesta de consulta de stock.
type StockLevelDTO struct {
	ProductID      string          `json:"product_id"`
	WarehouseID    string          `json:"warehouse_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	ReservedQty    decimal.Decimal `json:"reserved_qty"`
	EffectiveStock decimal.Decimal `json:"effective_stock"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
