package entity

import "time"

// Warehouse bodega física o sucursal de una empresa. Todo movimiento del
// ledger y todo nivel de stock se registran contra una bodega concreta.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
