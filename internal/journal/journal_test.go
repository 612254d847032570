package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlance/ai-options-trader/internal/broker"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// TestNew_WritesHeadersOnce tests header creation and reopen behavior
func TestNew_WritesHeadersOnce(t *testing.T) {
	dir := t.TempDir()

	j, err := New(dir)
	require.NoError(t, err)

	rows := readAll(t, j.TradePath())
	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"timestamp", "action", "symbol", "type", "strike", "expiry",
		"quantity", "price", "confidence", "status", "notes",
	}, rows[0])

	sigRows := readAll(t, j.SignalPath())
	require.Len(t, sigRows, 1)
	assert.Equal(t, []string{"timestamp", "symbol", "prediction", "confidence", "traded", "reason"}, sigRows[0])

	// Reopening must not duplicate the header.
	_, err = New(dir)
	require.NoError(t, err)
	assert.Len(t, readAll(t, j.TradePath()), 1)
}

// TestLogTrade_AppendsRow tests one executed trade row end to end
func TestLogTrade_AppendsRow(t *testing.T) {
	j, err := New(t.TempDir())
	require.NoError(t, err)

	ts := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)
	require.NoError(t, j.LogTrade(TradeRecord{
		Timestamp:  ts,
		Action:     broker.ActionBuy,
		Symbol:     "AAPL",
		Type:       "CALL",
		Strike:     180,
		Expiry:     "20260904",
		Quantity:   1,
		Price:      3.7,
		Confidence: 0.85,
		Status:     StatusExecuted,
		Notes:      "order paper-000001",
	}))

	rows := readAll(t, j.TradePath())
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"2026-08-28 10:30:00", "BUY", "AAPL", "CALL", "180", "20260904",
		"1", "3.7", "0.85", "executed", "order paper-000001",
	}, rows[1])
}

// TestLogTrade_FailedRowOmitsPrice tests that unknown price and confidence stay empty
func TestLogTrade_FailedRowOmitsPrice(t *testing.T) {
	j, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, j.LogTrade(TradeRecord{
		Action:   broker.ActionBuy,
		Symbol:   "TSLA",
		Type:     "PUT",
		Strike:   240,
		Expiry:   "20260904",
		Quantity: 1,
		Status:   StatusFailed,
		Notes:    "not connected",
	}))

	rows := readAll(t, j.TradePath())
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][7])
	assert.Equal(t, "", rows[1][8])
	assert.Equal(t, "failed", rows[1][9])
}

// TestLogSignal_AppendsRow tests the signal ledger columns
func TestLogSignal_AppendsRow(t *testing.T) {
	j, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, j.LogSignal(SignalRecord{
		Symbol:     "MSFT",
		Prediction: "CALL",
		Confidence: 0.62,
		Traded:     false,
		Reason:     "confidence 0.62 below threshold 0.80",
	}))

	rows := readAll(t, j.SignalPath())
	require.Len(t, rows, 2)
	assert.Equal(t, "MSFT", rows[1][1])
	assert.Equal(t, "CALL", rows[1][2])
	assert.Equal(t, "0.62", rows[1][3])
	assert.Equal(t, "false", rows[1][4])
	assert.Contains(t, rows[1][5], "below threshold")
}

// TestRecentTrades_LastN tests the read-back window
func TestRecentTrades_LastN(t *testing.T) {
	j, err := New(t.TempDir())
	require.NoError(t, err)

	symbols := []string{"AAPL", "TSLA", "MSFT", "NVDA"}
	for _, s := range symbols {
		require.NoError(t, j.LogTrade(TradeRecord{
			Action: broker.ActionBuy, Symbol: s, Type: "CALL",
			Strike: 100, Expiry: "20260904", Quantity: 1, Status: StatusExecuted,
		}))
	}

	rows, err := j.RecentTrades(2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "MSFT", rows[0][2])
	assert.Equal(t, "NVDA", rows[1][2])

	all, err := j.RecentTrades(0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

// TestTradesForSymbol tests per-symbol filtering
func TestTradesForSymbol(t *testing.T) {
	j, err := New(t.TempDir())
	require.NoError(t, err)

	for _, s := range []string{"AAPL", "TSLA", "AAPL"} {
		require.NoError(t, j.LogTrade(TradeRecord{
			Action: broker.ActionBuy, Symbol: s, Type: "CALL",
			Strike: 100, Expiry: "20260904", Quantity: 1, Status: StatusExecuted,
		}))
	}

	rows, err := j.TradesForSymbol("AAPL")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

// TestNew_CreatesDirectory tests nested journal directories
func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "journal")

	j, err := New(dir)
	require.NoError(t, err)

	_, err = os.Stat(j.TradePath())
	assert.NoError(t, err)
}
