package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
)

func newApplyFixture() (*memStore, *ApplyTransactionUseCase) {
	s := newMemStore()
	s.addProduct("prod-1", "comp-1", false)
	s.addWarehouse("wh-1", "comp-1")
	s.addWarehouse("wh-2", "comp-1")
	uc := NewApplyTransactionUseCase(&memTxRunner{s: s}, &memProductRepo{s: s}, &memWarehouseRepo{s: s})
	return s, uc
}

func txInput(txType string, delta int64) TransactionInputDTO {
	return TransactionInputDTO{
		CompanyID:   "comp-1",
		UserID:      "user-1",
		ProductID:   "prod-1",
		WarehouseID: "wh-1",
		Type:        txType,
		Delta:       decimal.NewFromInt(delta),
	}
}

func TestApplyRechazaSignosInvalidos(t *testing.T) {
	_, uc := newApplyFixture()
	ctx := context.Background()

	cases := []struct {
		txType string
		delta  int64
	}{
		{entity.LedgerTypePurchase, -5},
		{entity.LedgerTypePurchase, 0},
		{entity.LedgerTypeSale, 5},
		{entity.LedgerTypeSale, 0},
		{entity.LedgerTypeTransferIn, -1},
		{entity.LedgerTypeTransferOut, 1},
		{entity.LedgerTypeAdjustment, 0},
	}
	for _, tc := range cases {
		_, err := uc.Apply(ctx, txInput(tc.txType, tc.delta))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo %s delta %d", tc.txType, tc.delta)
	}

	_, err := uc.Apply(ctx, txInput("devolución", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyCreacionPerezosaDelNivel(t *testing.T) {
	s, uc := newApplyFixture()

	entryID, err := uc.Apply(context.Background(), txInput(entity.LedgerTypePurchase, 10))
	require.NoError(t, err)
	require.NotEmpty(t, entryID)

	level := s.levels[pairKey("prod-1", "wh-1")]
	require.NotNil(t, level)
	assert.True(t, level.Quantity.Equal(decimal.NewFromInt(10)))

	require.Len(t, s.ledger, 1)
	entry := s.ledger[0]
	assert.Equal(t, entryID, entry.ID)
	assert.True(t, entry.QuantityBefore.IsZero())
	assert.True(t, entry.QuantityAfter.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "user-1", entry.CreatedBy)
}

func TestApplyVentaBloqueadaPorReserva(t *testing.T) {
	s, uc := newApplyFixture()
	s.setLevel("prod-1", "wh-1", 5, 2)
	ctx := context.Background()

	// Vender 5 dejaría quantity 0 < reserved 2.
	_, err := uc.Apply(ctx, txInput(entity.LedgerTypeSale, -5))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, s.ledger, "la operación fallida no deja entradas")
	assert.True(t, s.levels[pairKey("prod-1", "wh-1")].Quantity.Equal(decimal.NewFromInt(5)))

	// Vender 3 respeta la reserva: quedan 2 = reserved.
	_, err = uc.Apply(ctx, txInput(entity.LedgerTypeSale, -3))
	require.NoError(t, err)
	level := s.levels[pairKey("prod-1", "wh-1")]
	assert.True(t, level.Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, level.ReservedQty.Equal(decimal.NewFromInt(2)))
}

func TestApplyNuncaDejaNivelNegativo(t *testing.T) {
	s, uc := newApplyFixture()
	s.setLevel("prod-1", "wh-1", 3, 0)

	_, err := uc.Apply(context.Background(), txInput(entity.LedgerTypeSale, -4))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, s.levels[pairKey("prod-1", "wh-1")].Quantity.Equal(decimal.NewFromInt(3)))
}

func TestReplayDelLedgerCoincideConElNivel(t *testing.T) {
	s, uc := newApplyFixture()
	ctx := context.Background()

	ops := []struct {
		txType string
		delta  int64
	}{
		{entity.LedgerTypePurchase, 20},
		{entity.LedgerTypeSale, -6},
		{entity.LedgerTypeAdjustment, -2},
		{entity.LedgerTypePurchase, 5},
		{entity.LedgerTypeSale, -3},
		{entity.LedgerTypeAdjustment, 1},
	}
	for _, op := range ops {
		_, err := uc.Apply(ctx, txInput(op.txType, op.delta))
		require.NoError(t, err)
	}

	sum := decimal.Zero
	for _, e := range s.ledger {
		sum = sum.Add(e.QuantityChange)
		assert.True(t, e.QuantityAfter.Equal(e.QuantityBefore.Add(e.QuantityChange)))
	}
	level := s.levels[pairKey("prod-1", "wh-1")]
	assert.True(t, level.Quantity.Equal(sum), "replay del ledger = %s, nivel = %s", sum, level.Quantity)
}

func TestTransferMueveEntreBodegas(t *testing.T) {
	s, uc := newApplyFixture()
	s.setLevel("prod-1", "wh-1", 10, 0)

	txID, err := uc.Transfer(context.Background(), TransferInputDTO{
		CompanyID:       "comp-1",
		UserID:          "user-1",
		ProductID:       "prod-1",
		FromWarehouseID: "wh-1",
		ToWarehouseID:   "wh-2",
		Quantity:        decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	assert.True(t, s.levels[pairKey("prod-1", "wh-1")].Quantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, s.levels[pairKey("prod-1", "wh-2")].Quantity.Equal(decimal.NewFromInt(4)))

	require.Len(t, s.ledger, 2)
	out, in := s.ledger[0], s.ledger[1]
	assert.Equal(t, entity.LedgerTypeTransferOut, out.Type)
	assert.Equal(t, entity.LedgerTypeTransferIn, in.Type)
	assert.Equal(t, txID, out.TransactionID)
	assert.Equal(t, txID, in.TransactionID)
	assert.True(t, out.QuantityChange.Equal(decimal.NewFromInt(-4)))
	assert.True(t, in.QuantityChange.Equal(decimal.NewFromInt(4)))
}

func TestTransferSinStockNoDejaEscriturasParciales(t *testing.T) {
	s, uc := newApplyFixture()
	s.setLevel("prod-1", "wh-1", 2, 0)

	_, err := uc.Transfer(context.Background(), TransferInputDTO{
		CompanyID:       "comp-1",
		ProductID:       "prod-1",
		FromWarehouseID: "wh-1",
		ToWarehouseID:   "wh-2",
		Quantity:        decimal.NewFromInt(5),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, s.ledger)
	assert.True(t, s.levels[pairKey("prod-1", "wh-1")].Quantity.Equal(decimal.NewFromInt(2)))
	_, exists := s.levels[pairKey("prod-1", "wh-2")]
	assert.False(t, exists)
}

func TestApplyRechazaRecursosDeOtraEmpresa(t *testing.T) {
	s, uc := newApplyFixture()
	s.addProduct("prod-ajeno", "comp-2", false)

	in := txInput(entity.LedgerTypePurchase, 1)
	in.ProductID = "prod-ajeno"
	_, err := uc.Apply(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
