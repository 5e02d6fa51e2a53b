package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor. LeadTimeDays es el tiempo de entrega
// prometido, usado por el motor de alertas de reorden.
type Supplier struct {
	ID           string
	CompanyID    string
	Name         string
	ContactEmail string
	LeadTimeDays int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductSupplier vincula un producto con un proveedor. A lo sumo un proveedor
// preferido por producto (lo garantiza el catálogo, no el motor de alertas).
type ProductSupplier struct {
	ProductID   string
	SupplierID  string
	IsPreferred bool
	UnitCost    decimal.Decimal
	CreatedAt   time.Time
}
