package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestAvailableStock_RestaReservas(t *testing.T) {
	assert.True(t, d(3).Equal(inventory.AvailableStock(d(5), d(2))))
	assert.True(t, d(5).Equal(inventory.AvailableStock(d(5), d(0))))
}

func TestAvailableStock_NuncaNegativo(t *testing.T) {
	// Reservado > cantidad no debería ocurrir, pero el cálculo no propaga negativos.
	assert.True(t, decimal.Zero.Equal(inventory.AvailableStock(d(1), d(4))))
}

func TestUnitsBuildable_Floor(t *testing.T) {
	// 7 disponibles, 2 por bundle -> 3 bundles.
	assert.True(t, d(3).Equal(inventory.UnitsBuildable(d(7), d(2))))
	// Componente exacto.
	assert.True(t, d(5).Equal(inventory.UnitsBuildable(d(10), d(2))))
	// Sin disponible.
	assert.True(t, decimal.Zero.Equal(inventory.UnitsBuildable(d(0), d(3))))
}

func TestUnitsBuildable_PerUnitInvalido(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(inventory.UnitsBuildable(d(10), decimal.Zero)))
}

func TestAvgDailyVelocity(t *testing.T) {
	// 60 unidades en 30 días -> 2/día; los días sin fila cuentan como cero vendido.
	assert.True(t, d(2).Equal(inventory.AvgDailyVelocity(d(60), 30)))
	assert.True(t, decimal.Zero.Equal(inventory.AvgDailyVelocity(d(60), 0)))
}

func TestDaysOfStockRemaining(t *testing.T) {
	days, ok := inventory.DaysOfStockRemaining(d(10), d(3))
	assert.True(t, ok)
	assert.Equal(t, int64(3), days)

	// Velocidad cero = sin riesgo por consumo.
	_, ok = inventory.DaysOfStockRemaining(d(10), decimal.Zero)
	assert.False(t, ok)
}
