package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Severidades de una alerta de reorden. Los límites exactos son configuración
// del motor de alertas, no del dominio.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// ReorderAlert es la señal de que un par producto-bodega debe reabastecerse.
// DaysUntilStockout es nil cuando la velocidad de venta es cero (sin riesgo
// por consumo).
type ReorderAlert struct {
	ProductID         string
	ProductName       string
	SKU               string
	WarehouseID       string
	WarehouseName     string
	EffectiveStock    decimal.Decimal
	Threshold         decimal.Decimal
	AvgDailySales     decimal.Decimal
	DaysUntilStockout *int64
	Severity          string
	SupplierID        string // proveedor preferido, vacío si no hay
	SupplierName      string
	SupplierEmail     string
	GeneratedAt       time.Time
}
