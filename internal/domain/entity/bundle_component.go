package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BundleComponent define cuántas unidades de un producto componente lleva una
// unidad del bundle. Sin auto-referencia, sin pares duplicados y sin ciclos
// (validado al insertar, nunca al leer).
type BundleComponent struct {
	BundleID    string
	ComponentID string
	Quantity    decimal.Decimal // unidades del componente por unidad de bundle, > 0
	CreatedAt   time.Time
}
