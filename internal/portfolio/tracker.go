package portfolio

import (
	"errors"
	"fmt"
	"time"

	"github.com/quantlance/ai-options-trader/internal/broker"
)

// ContractMultiplier converts per-share option P&L to per-contract P&L.
const ContractMultiplier = 100

var (
	// ErrPositionNotFound is returned when closing an unknown position key.
	ErrPositionNotFound = errors.New("position not found")
	// ErrPositionOverclose is returned when a close exceeds the open quantity.
	ErrPositionOverclose = errors.New("close quantity exceeds open quantity")
)

// Position is one open option position, keyed by the composite identity of
// symbol, right, strike and expiry. Quantity and entry price mutate only
// through weighted-average merges on repeated opens of the same key.
type Position struct {
	Symbol     string            `json:"symbol"`
	Right      broker.OrderRight `json:"right"`
	Strike     float64           `json:"strike"`
	Expiry     string            `json:"expiry"`
	Quantity   int               `json:"quantity"`
	EntryPrice float64           `json:"entry_price"`
	OpenedAt   time.Time         `json:"opened_at"`
}

// Key renders the composite position identity.
func (p Position) Key() string {
	return PositionKey(p.Symbol, p.Right, p.Strike, p.Expiry)
}

// PositionKey builds the composite key for a contract.
func PositionKey(symbol string, right broker.OrderRight, strike float64, expiry string) string {
	return fmt.Sprintf("%s_%s_%g_%s", symbol, right, strike, expiry)
}

// ClosedTrade is the immutable record appended when a position (or part of
// one) is closed. Never mutated after creation.
type ClosedTrade struct {
	PositionKey string    `json:"position_key"`
	EntryPrice  float64   `json:"entry_price"`
	ExitPrice   float64   `json:"exit_price"`
	Quantity    int       `json:"quantity"`
	PnL         float64   `json:"pnl"`
	ClosedAt    time.Time `json:"closed_at"`
}

// Tracker holds the open position book and realized P&L. Single-owner,
// single-thread accessed: the trading loop is the only writer.
type Tracker struct {
	positions    map[string]*Position
	closedTrades []ClosedTrade
	totalPnL     float64
}

// NewTracker creates an empty portfolio tracker.
func NewTracker() *Tracker {
	return &Tracker{
		positions: make(map[string]*Position),
	}
}

// AddPosition opens or augments a position. When the composite key already
// exists the entry price merges by quantity-weighted average.
func (t *Tracker) AddPosition(symbol string, right broker.OrderRight, strike float64, expiry string, quantity int, entryPrice float64) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	key := PositionKey(symbol, right, strike, expiry)
	if pos, ok := t.positions[key]; ok {
		totalQty := pos.Quantity + quantity
		pos.EntryPrice = (pos.EntryPrice*float64(pos.Quantity) + entryPrice*float64(quantity)) / float64(totalQty)
		pos.Quantity = totalQty
		return nil
	}

	t.positions[key] = &Position{
		Symbol:     symbol,
		Right:      right,
		Strike:     strike,
		Expiry:     expiry,
		Quantity:   quantity,
		EntryPrice: entryPrice,
		OpenedAt:   time.Now(),
	}
	return nil
}

// ClosePosition closes quantity contracts of the keyed position at
// exitPrice; quantity 0 closes the whole position. Overclosing fails
// without mutating anything. Returns the realized P&L.
func (t *Tracker) ClosePosition(key string, exitPrice float64, quantity int) (float64, error) {
	pos, ok := t.positions[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrPositionNotFound, key)
	}

	closeQty := quantity
	if closeQty == 0 {
		closeQty = pos.Quantity
	}
	if closeQty > pos.Quantity {
		return 0, fmt.Errorf("%w: cannot close %d contracts, only %d open",
			ErrPositionOverclose, closeQty, pos.Quantity)
	}

	pnl := (exitPrice - pos.EntryPrice) * float64(closeQty) * ContractMultiplier
	t.totalPnL += pnl

	t.closedTrades = append(t.closedTrades, ClosedTrade{
		PositionKey: key,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   exitPrice,
		Quantity:    closeQty,
		PnL:         pnl,
		ClosedAt:    time.Now(),
	})

	if closeQty == pos.Quantity {
		delete(t.positions, key)
	} else {
		pos.Quantity -= closeQty
	}
	return pnl, nil
}

// GetPosition returns a copy of the position for key, if open.
func (t *Tracker) GetPosition(key string) (Position, bool) {
	pos, ok := t.positions[key]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// OpenPositions returns copies of every open position.
func (t *Tracker) OpenPositions() []Position {
	out := make([]Position, 0, len(t.positions))
	for _, pos := range t.positions {
		out = append(out, *pos)
	}
	return out
}

// ClosedTrades returns the closed-trade ledger.
func (t *Tracker) ClosedTrades() []ClosedTrade {
	return t.closedTrades
}

// TotalPnL returns realized P&L across all closed trades.
func (t *Tracker) TotalPnL() float64 {
	return t.totalPnL
}

// CostBasis is the sum of quantity * entry price * multiplier over all open
// positions.
func (t *Tracker) CostBasis() float64 {
	total := 0.0
	for _, pos := range t.positions {
		total += float64(pos.Quantity) * pos.EntryPrice * ContractMultiplier
	}
	return total
}

// Summary is a snapshot of the portfolio's headline numbers.
type Summary struct {
	OpenPositions int     `json:"open_positions"`
	ClosedTrades  int     `json:"closed_trades"`
	TotalPnL      float64 `json:"total_pnl"`
	CostBasis     float64 `json:"cost_basis"`
}

// GetSummary returns the portfolio headline numbers.
func (t *Tracker) GetSummary() Summary {
	return Summary{
		OpenPositions: len(t.positions),
		ClosedTrades:  len(t.closedTrades),
		TotalPnL:      t.totalPnL,
		CostBasis:     t.CostBasis(),
	}
}
