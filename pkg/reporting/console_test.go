package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerRow(symbol, qty, price, status string) []string {
	return []string{
		"2026-08-28 10:30:00", "BUY", symbol, "CALL", "180", "20260904",
		qty, price, "0.85", status, "",
	}
}

// TestComputeStats_AggregatesPerSymbol tests the per-symbol fold
func TestComputeStats_AggregatesPerSymbol(t *testing.T) {
	rows := [][]string{
		ledgerRow("AAPL", "1", "3.70", "executed"),
		ledgerRow("AAPL", "2", "4.00", "executed"),
		ledgerRow("AAPL", "1", "", "failed"),
		ledgerRow("TSLA", "1", "4.80", "executed"),
	}

	stats := ComputeStats(rows)
	require.Len(t, stats, 2)

	aapl := stats[0]
	assert.Equal(t, "AAPL", aapl.Symbol)
	assert.Equal(t, 3, aapl.Trades)
	assert.Equal(t, 2, aapl.Executed)
	assert.Equal(t, 1, aapl.Failed)
	// 1*3.70*100 + 2*4.00*100
	assert.InDelta(t, 1170.0, aapl.Notional, 1e-9)

	tsla := stats[1]
	assert.Equal(t, "TSLA", tsla.Symbol)
	assert.Equal(t, 1, tsla.Executed)
	assert.InDelta(t, 480.0, tsla.Notional, 1e-9)
}

// TestComputeStats_PreservesFirstSeenOrder tests stable output ordering
func TestComputeStats_PreservesFirstSeenOrder(t *testing.T) {
	rows := [][]string{
		ledgerRow("QQQ", "1", "4.45", "executed"),
		ledgerRow("AAPL", "1", "3.70", "executed"),
		ledgerRow("QQQ", "1", "4.50", "executed"),
	}

	stats := ComputeStats(rows)
	require.Len(t, stats, 2)
	assert.Equal(t, "QQQ", stats[0].Symbol)
	assert.Equal(t, "AAPL", stats[1].Symbol)
}

// TestComputeStats_SkipsShortRows tests resilience to truncated ledger lines
func TestComputeStats_SkipsShortRows(t *testing.T) {
	rows := [][]string{
		{"2026-08-28 10:30:00", "BUY", "AAPL"},
		ledgerRow("AAPL", "1", "3.70", "executed"),
	}

	stats := ComputeStats(rows)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Trades)
}

// TestComputeStats_FailedRowsCarryNoNotional tests that empty prices are ignored
func TestComputeStats_FailedRowsCarryNoNotional(t *testing.T) {
	rows := [][]string{
		ledgerRow("AAPL", "1", "", "failed"),
	}

	stats := ComputeStats(rows)
	require.Len(t, stats, 1)
	assert.Equal(t, 0.0, stats[0].Notional)
	assert.Equal(t, 1, stats[0].Failed)
}
