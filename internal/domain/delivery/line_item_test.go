package delivery

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLine() *DeliveryLineItem {
	line := &DeliveryLineItem{
		BaseEntity:       shared.NewBaseEntity(),
		ProductID:        uuid.New(),
		DeliveryQuantity: decimal.NewFromInt(40),
		BatchCode:        "B1",
		UnitRate:         decimal.NewFromInt(10),
		Status:           LineStatusPending,
	}
	line.reprice()
	return line
}

func TestLineStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, LineStatusPending.CanTransitionTo(LineStatusDraft))
	assert.False(t, LineStatusDraft.CanTransitionTo(LineStatusPending))
	assert.False(t, LineStatusDraft.CanTransitionTo(LineStatusDraft))
}

func TestDeliveryLineItem_UpdateDeliveryQuantity(t *testing.T) {
	t.Run("recomputes trade and VAT amounts", func(t *testing.T) {
		line := newTestLine()
		require.NoError(t, line.UpdateDeliveryQuantity(decimal.NewFromInt(25)))

		assert.True(t, line.TradeAmount.Equal(decimal.NewFromInt(250)))
		assert.True(t, line.VATAmount.Equal(decimal.NewFromFloat(37.50)))
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		line := newTestLine()
		assert.Error(t, line.UpdateDeliveryQuantity(decimal.NewFromInt(-1)))
	})
}

func TestDeliveryLineItem_UpdateUnitRate(t *testing.T) {
	t.Run("recomputes trade and VAT amounts", func(t *testing.T) {
		line := newTestLine()
		require.NoError(t, line.UpdateUnitRate(decimal.NewFromFloat(12.50)))

		assert.True(t, line.TradeAmount.Equal(decimal.NewFromInt(500)))
		assert.True(t, line.VATAmount.Equal(decimal.NewFromInt(75)))
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		line := newTestLine()
		assert.Error(t, line.UpdateUnitRate(decimal.NewFromInt(-10)))
	})
}

func TestDeliveryLineItem_UpdateTradeAmount(t *testing.T) {
	t.Run("recomputes only the VAT amount", func(t *testing.T) {
		line := newTestLine()
		require.NoError(t, line.UpdateTradeAmount(decimal.NewFromInt(300)))

		assert.True(t, line.TradeAmount.Equal(decimal.NewFromInt(300)))
		assert.True(t, line.VATAmount.Equal(decimal.NewFromInt(45)))
		// rate and quantity stay as entered
		assert.True(t, line.UnitRate.Equal(decimal.NewFromInt(10)))
		assert.True(t, line.DeliveryQuantity.Equal(decimal.NewFromInt(40)))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		line := newTestLine()
		assert.Error(t, line.UpdateTradeAmount(decimal.NewFromInt(-1)))
	})
}

func TestDeliveryLineItem_MarkDraft(t *testing.T) {
	t.Run("transitions pending to draft without touching pricing", func(t *testing.T) {
		line := newTestLine()
		trade, vat := line.TradeAmount, line.VATAmount

		require.NoError(t, line.MarkDraft())
		assert.Equal(t, LineStatusDraft, line.Status)
		assert.True(t, line.TradeAmount.Equal(trade))
		assert.True(t, line.VATAmount.Equal(vat))
	})

	t.Run("rejects a second transition", func(t *testing.T) {
		line := newTestLine()
		require.NoError(t, line.MarkDraft())
		assert.ErrorIs(t, line.MarkDraft(), shared.ErrInvalidState)
	})
}
