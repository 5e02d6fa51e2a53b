package inventory

import "github.com/shopspring/decimal"

// AvailableStock implementa el stock disponible de un producto simple (servicio de dominio).
// Disponible = Cantidad - Reservado; nunca negativo.
func AvailableStock(quantity, reserved decimal.Decimal) decimal.Decimal {
	avail := quantity.Sub(reserved)
	if avail.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return avail
}

// UnitsBuildable devuelve cuántas unidades de bundle alcanza a armar un
// componente: floor(disponibleDelComponente / unidadesPorBundle).
// Con perUnit <= 0 devuelve cero (el dato es inválido, no hay unidades).
func UnitsBuildable(componentAvailable, perUnit decimal.Decimal) decimal.Decimal {
	if perUnit.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return componentAvailable.Div(perUnit).Floor()
}

// AvgDailyVelocity calcula la velocidad promedio diaria de venta:
// totalVendido / díasDeVentana. Los días sin ventas cuentan como cero
// (el numerador ya los incluye como 0); ventana <= 0 devuelve cero.
func AvgDailyVelocity(totalSold decimal.Decimal, lookbackDays int) decimal.Decimal {
	if lookbackDays <= 0 {
		return decimal.Zero
	}
	return totalSold.Div(decimal.NewFromInt(int64(lookbackDays)))
}

// DaysOfStockRemaining devuelve floor(stockEfectivo / velocidadDiaria) y true,
// o (0, false) cuando la velocidad es cero (sin riesgo de quiebre por consumo).
func DaysOfStockRemaining(effectiveStock, avgDailySales decimal.Decimal) (int64, bool) {
	if avgDailySales.LessThanOrEqual(decimal.Zero) {
		return 0, false
	}
	return effectiveStock.Div(avgDailySales).Floor().IntPart(), true
}
