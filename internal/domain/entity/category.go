package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category representa una categoría de productos.
// LowStockThresholdDefault lo heredan los productos sin umbral propio.
type Category struct {
	ID                       string
	CompanyID                string
	Name                     string
	Code                     string // código único por empresa
	LowStockThresholdDefault *decimal.Decimal
	CreatedAt                time.Time
	UpdatedAt                time.Time
}
