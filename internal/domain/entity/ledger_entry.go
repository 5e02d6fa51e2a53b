package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de entrada del ledger de stock.
const (
	LedgerTypePurchase    = "purchase"     // entrada por compra (delta > 0)
	LedgerTypeSale        = "sale"         // salida por venta (delta < 0)
	LedgerTypeAdjustment  = "adjustment"   // ajuste manual (cualquier signo)
	LedgerTypeTransferIn  = "transfer_in"  // entrada por traslado (delta > 0)
	LedgerTypeTransferOut = "transfer_out" // salida por traslado (delta < 0)
)

// LedgerEntry es una entrada inmutable del ledger de stock: nunca se edita ni
// se borra. QuantityBefore y QuantityAfter se graban al momento de escribir,
// no se recalculan; QuantityAfter = QuantityBefore + QuantityChange y debe
// coincidir con StockLevel.Quantity justo después de aplicar la entrada.
// Seq es monotónico (BIGSERIAL) y define el orden de consumo del agregador.
type LedgerEntry struct {
	ID             string
	Seq            int64
	TransactionID  string // agrupa las dos entradas de un traslado
	ProductID      string
	WarehouseID    string
	Type           string
	QuantityChange decimal.Decimal
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	ReferenceType  string // objeto de negocio origen (invoice, order, ...), opcional
	ReferenceID    string
	Notes          string
	CreatedBy      string // UserID, opcional
	CreatedAt      time.Time
}
