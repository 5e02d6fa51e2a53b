package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-bodega).
// El stock se maneja por bodega en StockLevel y solo lo escribe el motor de ledger.
// LowStockThreshold es el umbral propio del producto; nil hereda el default de la categoría.
type Product struct {
	ID                string
	CompanyID         string
	SKU               string // código único por empresa
	Name              string
	Description       string
	Price             decimal.Decimal
	IsBundle          bool
	CategoryID        string           // vacío si no tiene categoría
	LowStockThreshold *decimal.Decimal // nil = sin umbral propio
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
