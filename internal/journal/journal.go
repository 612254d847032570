package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/quantlance/ai-options-trader/internal/broker"
)

var tradeHeader = []string{
	"timestamp", "action", "symbol", "type", "strike", "expiry",
	"quantity", "price", "confidence", "status", "notes",
}

var signalHeader = []string{
	"timestamp", "symbol", "prediction", "confidence", "traded", "reason",
}

const timestampLayout = "2006-01-02 15:04:05"

// TradeStatus marks the outcome recorded for a trade row.
type TradeStatus string

const (
	StatusExecuted TradeStatus = "executed"
	StatusPending  TradeStatus = "pending"
	StatusFailed   TradeStatus = "failed"
)

// TradeRecord is one row of the trade ledger.
type TradeRecord struct {
	Timestamp  time.Time
	Action     broker.OrderAction
	Symbol     string
	Type       string // CALL or PUT
	Strike     float64
	Expiry     string
	Quantity   int
	Price      float64
	Confidence float64
	Status     TradeStatus
	Notes      string
}

// SignalRecord is one row of the signal ledger.
type SignalRecord struct {
	Timestamp  time.Time
	Symbol     string
	Prediction string
	Confidence float64
	Traded     bool
	Reason     string
}

// Journal writes the append-only trade and signal ledgers. Rows are only
// ever appended; the files are read back solely for reporting. The mutex is
// defensive single-writer safety around the shared file handles.
type Journal struct {
	mu         sync.Mutex
	dir        string
	tradePath  string
	signalPath string
}

// New opens (creating if needed) the trade and signal ledgers under dir.
// Headers are written once, when the file does not exist yet.
func New(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	j := &Journal{
		dir:        dir,
		tradePath:  filepath.Join(dir, "trades.csv"),
		signalPath: filepath.Join(dir, "signals.csv"),
	}

	if err := ensureLedger(j.tradePath, tradeHeader); err != nil {
		return nil, err
	}
	if err := ensureLedger(j.signalPath, signalHeader); err != nil {
		return nil, err
	}
	return j, nil
}

// TradePath returns the trade ledger location.
func (j *Journal) TradePath() string { return j.tradePath }

// SignalPath returns the signal ledger location.
func (j *Journal) SignalPath() string { return j.signalPath }

// LogTrade appends one trade row. The zero Timestamp defaults to now.
func (j *Journal) LogTrade(rec TradeRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	price := ""
	if rec.Price != 0 {
		price = strconv.FormatFloat(rec.Price, 'f', -1, 64)
	}
	confidence := ""
	if rec.Confidence != 0 {
		confidence = strconv.FormatFloat(rec.Confidence, 'f', -1, 64)
	}

	return j.appendRow(j.tradePath, []string{
		rec.Timestamp.Format(timestampLayout),
		string(rec.Action),
		rec.Symbol,
		rec.Type,
		strconv.FormatFloat(rec.Strike, 'f', -1, 64),
		rec.Expiry,
		strconv.Itoa(rec.Quantity),
		price,
		confidence,
		string(rec.Status),
		rec.Notes,
	})
}

// LogSignal appends one signal row. The zero Timestamp defaults to now.
func (j *Journal) LogSignal(rec SignalRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	return j.appendRow(j.signalPath, []string{
		rec.Timestamp.Format(timestampLayout),
		rec.Symbol,
		rec.Prediction,
		strconv.FormatFloat(rec.Confidence, 'f', -1, 64),
		strconv.FormatBool(rec.Traded),
		rec.Reason,
	})
}

// RecentTrades returns the last n trade rows as raw CSV records (excluding
// the header). Used by reporting only.
func (j *Journal) RecentTrades(n int) ([][]string, error) {
	rows, err := j.readLedger(j.tradePath)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(rows) > n {
		rows = rows[len(rows)-n:]
	}
	return rows, nil
}

// TradesForSymbol returns every trade row for one underlying.
func (j *Journal) TradesForSymbol(symbol string) ([][]string, error) {
	rows, err := j.readLedger(j.tradePath)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0)
	for _, row := range rows {
		if len(row) > 2 && row[2] == symbol {
			out = append(out, row)
		}
	}
	return out, nil
}

func (j *Journal) appendRow(path string, row []string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *Journal) readLedger(path string) ([][]string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) <= 1 {
		return nil, nil
	}
	return all[1:], nil
}

func ensureLedger(path string, header []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create ledger %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
