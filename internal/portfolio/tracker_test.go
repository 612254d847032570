package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlance/ai-options-trader/internal/broker"
)

// TestAddPosition_NewPosition tests opening a fresh position
func TestAddPosition_NewPosition(t *testing.T) {
	tr := NewTracker()

	err := tr.AddPosition("AAPL", broker.RightCall, 180, "20261218", 2, 5.0)
	require.NoError(t, err)

	pos, ok := tr.GetPosition("AAPL_C_180_20261218")
	require.True(t, ok)
	assert.Equal(t, 2, pos.Quantity)
	assert.Equal(t, 5.0, pos.EntryPrice)
}

// TestAddPosition_WeightedAverageMerge tests the repeated-open merge rule
func TestAddPosition_WeightedAverageMerge(t *testing.T) {
	tr := NewTracker()

	require.NoError(t, tr.AddPosition("AAPL", broker.RightCall, 180, "20261218", 2, 5.0))
	require.NoError(t, tr.AddPosition("AAPL", broker.RightCall, 180, "20261218", 2, 6.0))

	pos, ok := tr.GetPosition("AAPL_C_180_20261218")
	require.True(t, ok)
	assert.Equal(t, 4, pos.Quantity)
	assert.InDelta(t, 5.5, pos.EntryPrice, 1e-9)
	assert.Len(t, tr.OpenPositions(), 1)
}

// TestAddPosition_DistinctKeys tests that any differing leg opens a new position
func TestAddPosition_DistinctKeys(t *testing.T) {
	tr := NewTracker()

	require.NoError(t, tr.AddPosition("AAPL", broker.RightCall, 180, "20261218", 1, 5.0))
	require.NoError(t, tr.AddPosition("AAPL", broker.RightPut, 180, "20261218", 1, 5.0))
	require.NoError(t, tr.AddPosition("AAPL", broker.RightCall, 185, "20261218", 1, 5.0))
	require.NoError(t, tr.AddPosition("AAPL", broker.RightCall, 180, "20261225", 1, 5.0))

	assert.Len(t, tr.OpenPositions(), 4)
}

// TestAddPosition_RejectsNonPositiveQuantity tests the input guard
func TestAddPosition_RejectsNonPositiveQuantity(t *testing.T) {
	tr := NewTracker()

	assert.Error(t, tr.AddPosition("AAPL", broker.RightCall, 180, "20261218", 0, 5.0))
	assert.Error(t, tr.AddPosition("AAPL", broker.RightCall, 180, "20261218", -1, 5.0))
}

// TestClosePosition_FullClose tests removal and realized P&L with the contract multiplier
func TestClosePosition_FullClose(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.AddPosition("AAPL", broker.RightCall, 180, "20261218", 4, 5.5))

	pnl, err := tr.ClosePosition("AAPL_C_180_20261218", 6.5, 0)
	require.NoError(t, err)

	assert.InDelta(t, 400.0, pnl, 1e-9) // (6.5-5.5) * 4 * 100
	assert.Empty(t, tr.OpenPositions())
	assert.Len(t, tr.ClosedTrades(), 1)
	assert.InDelta(t, 400.0, tr.TotalPnL(), 1e-9)
}

// TestClosePosition_PartialClose tests quantity reduction without removal
func TestClosePosition_PartialClose(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.AddPosition("TSLA", broker.RightPut, 240, "20261218", 5, 8.0))

	pnl, err := tr.ClosePosition("TSLA_P_240_20261218", 7.0, 2)
	require.NoError(t, err)

	assert.InDelta(t, -200.0, pnl, 1e-9)
	pos, ok := tr.GetPosition("TSLA_P_240_20261218")
	require.True(t, ok)
	assert.Equal(t, 3, pos.Quantity)
	assert.Equal(t, 8.0, pos.EntryPrice)
}

// TestClosePosition_OvercloseNoMutation tests that a rejected close changes nothing
func TestClosePosition_OvercloseNoMutation(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.AddPosition("SPY", broker.RightCall, 520, "20261218", 4, 3.0))

	_, err := tr.ClosePosition("SPY_C_520_20261218", 4.0, 5)
	assert.ErrorIs(t, err, ErrPositionOverclose)

	pos, ok := tr.GetPosition("SPY_C_520_20261218")
	require.True(t, ok)
	assert.Equal(t, 4, pos.Quantity)
	assert.Empty(t, tr.ClosedTrades())
	assert.Equal(t, 0.0, tr.TotalPnL())
}

// TestClosePosition_UnknownKey tests the not-found error
func TestClosePosition_UnknownKey(t *testing.T) {
	tr := NewTracker()

	_, err := tr.ClosePosition("MSFT_C_410_20261218", 1.0, 0)
	assert.ErrorIs(t, err, ErrPositionNotFound)
}

// TestTotalPnL_AccumulatesAcrossCloses tests realized P&L accumulation
func TestTotalPnL_AccumulatesAcrossCloses(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.AddPosition("AAPL", broker.RightCall, 180, "20261218", 1, 2.0))
	require.NoError(t, tr.AddPosition("QQQ", broker.RightPut, 445, "20261218", 1, 4.0))

	_, err := tr.ClosePosition("AAPL_C_180_20261218", 3.5, 0)
	require.NoError(t, err)
	_, err = tr.ClosePosition("QQQ_P_445_20261218", 3.0, 0)
	require.NoError(t, err)

	assert.InDelta(t, 50.0, tr.TotalPnL(), 1e-9) // +150 - 100
}

// TestGetSummary_HeadlineNumbers tests the summary snapshot
func TestGetSummary_HeadlineNumbers(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.AddPosition("AAPL", broker.RightCall, 180, "20261218", 2, 3.0))

	summary := tr.GetSummary()
	assert.Equal(t, 1, summary.OpenPositions)
	assert.Equal(t, 0, summary.ClosedTrades)
	assert.InDelta(t, 600.0, summary.CostBasis, 1e-9)
}

// TestPositionKey_Format tests the composite key rendering
func TestPositionKey_Format(t *testing.T) {
	key := PositionKey("AAPL", broker.RightCall, 182.5, "20261218")
	assert.Equal(t, "AAPL_C_182.5_20261218", key)
}
