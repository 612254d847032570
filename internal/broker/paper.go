package broker

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

// basePrices seeds the simulated quote feed for symbols we know about.
// Unknown symbols fall back to $100.
var basePrices = map[string]float64{
	"AAPL": 185.0,
	"TSLA": 240.0,
	"MSFT": 410.0,
	"NVDA": 880.0,
	"SPY":  520.0,
	"QQQ":  445.0,
}

// PaperBroker is a fully simulated brokerage session. It implements the
// Broker interface without any network I/O, fills every valid order at a
// synthetic premium and keeps a simple cash ledger. Used for dry runs and
// as the default when no live credentials are configured.
type PaperBroker struct {
	cash      float64
	connected bool
	rng       *rand.Rand
	orderSeq  atomic.Int64
	positions []AccountPosition

	// FailConnect forces Connect to fail, for exercising retry paths.
	FailConnect bool
}

// NewPaperBroker creates a simulated broker with the given starting cash.
func NewPaperBroker(startingCash float64) *PaperBroker {
	if startingCash <= 0 {
		startingCash = 100000.0
	}
	return &PaperBroker{
		cash: startingCash,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *PaperBroker) GetName() string { return "paper" }

func (b *PaperBroker) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.FailConnect {
		return NewBrokerError("CONNECT_FAILED", "Simulated connection failure", "", true)
	}
	b.connected = true
	return nil
}

// Disconnect is safe to call repeatedly.
func (b *PaperBroker) Disconnect() error {
	b.connected = false
	return nil
}

func (b *PaperBroker) IsConnected() bool { return b.connected }

// SubmitOptionOrder fills immediately at a synthetic option premium derived
// from the underlying price. Cash is debited for buys and credited for sells.
func (b *PaperBroker) SubmitOptionOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !b.connected {
		return nil, ErrNotConnected
	}
	if req.Quantity <= 0 {
		return nil, NewBrokerError("INVALID_QUANTITY", "Order quantity must be positive",
			fmt.Sprintf("got %d", req.Quantity), false)
	}
	if req.Symbol == "" {
		return nil, ErrInvalidSymbol
	}

	premium := b.simulatedPremium(req)
	cost := premium * float64(req.Quantity) * 100

	switch req.Action {
	case ActionBuy:
		if cost > b.cash {
			return nil, NewBrokerError("INSUFFICIENT_FUNDS", "Not enough cash for order",
				fmt.Sprintf("need $%.2f, have $%.2f", cost, b.cash), false)
		}
		b.cash -= cost
	case ActionSell:
		b.cash += cost
	default:
		return nil, NewBrokerError("INVALID_ACTION", "Unknown order action", string(req.Action), false)
	}

	id := b.orderSeq.Add(1)
	return &OrderResult{
		OrderID:     fmt.Sprintf("paper-%06d", id),
		Status:      OrderStatusFilled,
		FillPrice:   premium,
		SubmittedAt: time.Now(),
	}, nil
}

func (b *PaperBroker) FetchMarketData(ctx context.Context, symbol string) (*MarketData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !b.connected {
		return nil, ErrNotConnected
	}

	base, ok := basePrices[symbol]
	if !ok {
		base = 100.0
	}
	// Random walk around the base so consecutive cycles see movement.
	last := base * (1 + (b.rng.Float64()-0.5)*0.02)
	spread := last * 0.0005

	return &MarketData{
		Symbol:    symbol,
		LastPrice: last,
		Bid:       last - spread,
		Ask:       last + spread,
		Volume:    float64(1000 + b.rng.Intn(4000)),
		Timestamp: time.Now(),
	}, nil
}

func (b *PaperBroker) GetAccountInfo(ctx context.Context) (*AccountInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !b.connected {
		return nil, ErrNotConnected
	}
	return &AccountInfo{
		AccountID:   "paper-account",
		Cash:        b.cash,
		BuyingPower: b.cash,
		Positions:   b.positions,
	}, nil
}

// simulatedPremium prices the contract at a crude fraction of the underlying.
// Slightly OTM contracts are cheaper; the exact curve does not matter for a
// paper fill, only that it is stable and positive.
func (b *PaperBroker) simulatedPremium(req OrderRequest) float64 {
	base, ok := basePrices[req.Symbol]
	if !ok {
		base = 100.0
	}
	premium := base * 0.02
	moneyness := (base - req.Strike) / base
	if req.Right == RightPut {
		moneyness = -moneyness
	}
	premium *= 1 + moneyness
	if premium < 0.05 {
		premium = 0.05
	}
	return premium
}
