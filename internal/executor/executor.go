package executor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/quantlance/ai-options-trader/internal/broker"
	"github.com/quantlance/ai-options-trader/internal/journal"
	"github.com/quantlance/ai-options-trader/internal/marketdata"
	"github.com/quantlance/ai-options-trader/internal/portfolio"
	"github.com/quantlance/ai-options-trader/internal/predictor"
	"github.com/quantlance/ai-options-trader/internal/risk"
)

// Executor turns an accepted signal into a broker order and applies the
// bookkeeping. State updates are atomic per trade: on a failed submission
// the order is journaled with failed status and nothing else changes.
type Executor struct {
	broker       broker.Broker
	tracker      *portfolio.Tracker
	journal      *journal.Journal
	riskEngine   *risk.Engine
	strikePolicy StrikePolicy
	expiryPolicy ExpiryPolicy
}

// New creates a trade executor. Nil policies fall back to the static strike
// and next-Friday expiry defaults.
func New(b broker.Broker, tracker *portfolio.Tracker, jrnl *journal.Journal, riskEngine *risk.Engine, strike StrikePolicy, expiry ExpiryPolicy) *Executor {
	if strike == nil {
		strike = StaticStrike{Value: 180}
	}
	if expiry == nil {
		expiry = NextFriday{}
	}
	return &Executor{
		broker:       b,
		tracker:      tracker,
		journal:      jrnl,
		riskEngine:   riskEngine,
		strikePolicy: strike,
		expiryPolicy: expiry,
	}
}

// Fill pairs a broker result with the contract terms that were submitted,
// so callers can report strike and expiry without recomputing the policies.
type Fill struct {
	*broker.OrderResult
	Request broker.OrderRequest
}

// Execute submits an order for the accepted prediction. Returns the fill on
// success; on broker failure the error is returned after the failed attempt
// is journaled, with portfolio and risk totals untouched.
func (e *Executor) Execute(ctx context.Context, pred predictor.Prediction, row marketdata.FeatureRow, quantity int) (*Fill, error) {
	right := broker.RightCall
	if pred.Direction == predictor.DirectionPut {
		right = broker.RightPut
	}

	req := broker.OrderRequest{
		Symbol:   pred.Symbol,
		Right:    right,
		Strike:   e.strikePolicy.Strike(row),
		Expiry:   e.expiryPolicy.Expiry(time.Now()),
		Action:   broker.ActionBuy,
		Quantity: quantity,
	}

	result, err := e.broker.SubmitOptionOrder(ctx, req)
	if err != nil {
		if logErr := e.journal.LogTrade(journal.TradeRecord{
			Action:     req.Action,
			Symbol:     req.Symbol,
			Type:       string(pred.Direction),
			Strike:     req.Strike,
			Expiry:     req.Expiry,
			Quantity:   req.Quantity,
			Confidence: pred.Confidence,
			Status:     journal.StatusFailed,
			Notes:      err.Error(),
		}); logErr != nil {
			log.Printf("Failed to journal failed order for %s: %v", req.Symbol, logErr)
		}
		return nil, fmt.Errorf("order submission for %s failed: %w", req.Symbol, err)
	}

	fillPrice := result.FillPrice

	if err := e.journal.LogTrade(journal.TradeRecord{
		Action:     req.Action,
		Symbol:     req.Symbol,
		Type:       string(pred.Direction),
		Strike:     req.Strike,
		Expiry:     req.Expiry,
		Quantity:   req.Quantity,
		Price:      fillPrice,
		Confidence: pred.Confidence,
		Status:     journal.StatusExecuted,
		Notes:      fmt.Sprintf("order %s", result.OrderID),
	}); err != nil {
		log.Printf("Failed to journal executed order %s: %v", result.OrderID, err)
	}

	if err := e.tracker.AddPosition(req.Symbol, req.Right, req.Strike, req.Expiry, req.Quantity, fillPrice); err != nil {
		// The order is already live; surface the bookkeeping failure loudly.
		return &Fill{OrderResult: result, Request: req}, fmt.Errorf("order %s filled but position tracking failed: %w", result.OrderID, err)
	}

	// The risk engine only moves on explicit updates; a submitted buy adds
	// the signal's delta exposure.
	e.riskEngine.UpdatePortfolioDelta(row.Delta * float64(req.Quantity))

	return &Fill{OrderResult: result, Request: req}, nil
}
