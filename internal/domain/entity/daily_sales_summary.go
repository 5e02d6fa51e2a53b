package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySalesSummary acumula las unidades vendidas de un producto en una bodega
// por día calendario UTC. Solo crece: el agregador suma dentro del bucket,
// nunca resta.
type DailySalesSummary struct {
	ProductID    string
	WarehouseID  string
	SaleDate     time.Time // fecha UTC truncada a día
	QuantitySold decimal.Decimal
	UpdatedAt    time.Time
}
