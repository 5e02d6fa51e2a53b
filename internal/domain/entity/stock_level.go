package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel es el stock actual denormalizado de un producto en una bodega.
// Derivado del ledger y mantenido consistente con él en la misma transacción.
// Invariantes: Quantity >= 0, ReservedQty >= 0, ReservedQty <= Quantity.
// Solo lo escriben ApplyTransaction y las operaciones de reserva.
type StockLevel struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	ReservedQty decimal.Decimal
	UpdatedAt   time.Time
}

// Available devuelve el stock disponible para asignar (quantity - reserved).
func (s *StockLevel) Available() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQty)
}
