package risk

import (
	"fmt"
	"math"
)

// Limits is the read-only risk configuration for a run.
type Limits struct {
	MaxPositionSize   int     `json:"max_position_size"`
	MaxDailyLoss      float64 `json:"max_daily_loss"`
	MaxPortfolioDelta float64 `json:"max_portfolio_delta"`
}

// DefaultLimits returns the stock production limits.
func DefaultLimits() Limits {
	return Limits{
		MaxPositionSize:   10,
		MaxDailyLoss:      1000,
		MaxPortfolioDelta: 100,
	}
}

// Verdict is the combined result of all risk checks. Every check runs even
// when an earlier one fails, so the journal carries the full picture.
type Verdict struct {
	Valid    bool
	Messages []string
}

// Reason joins the check messages for journaling.
func (v Verdict) Reason() string {
	out := ""
	for i, m := range v.Messages {
		if i > 0 {
			out += "; "
		}
		out += m
	}
	return out
}

// Engine runs the pre-trade limit checks against its running totals. The
// totals only move through the explicit update calls: the engine never
// self-updates on trade submission — the executor owns that responsibility.
type Engine struct {
	limits         Limits
	dailyPnL       float64
	portfolioDelta float64
}

// NewEngine creates a risk engine with zeroed running totals.
func NewEngine(limits Limits) *Engine {
	return &Engine{limits: limits}
}

// ValidateTrade runs the position-size, daily-loss and portfolio-delta
// checks. potentialLoss may be 0 when unknown up front.
func (e *Engine) ValidateTrade(quantity int, signalDelta, potentialLoss float64) Verdict {
	verdict := Verdict{Valid: true}

	// Position size
	if quantity > e.limits.MaxPositionSize {
		verdict.Valid = false
		verdict.Messages = append(verdict.Messages,
			fmt.Sprintf("position size %d exceeds max %d", quantity, e.limits.MaxPositionSize))
	} else {
		verdict.Messages = append(verdict.Messages, "position size OK")
	}

	// Daily loss
	if math.Abs(e.dailyPnL+potentialLoss) > e.limits.MaxDailyLoss {
		verdict.Valid = false
		verdict.Messages = append(verdict.Messages,
			fmt.Sprintf("daily loss limit would be exceeded: %.2f (max %.2f)",
				e.dailyPnL+potentialLoss, e.limits.MaxDailyLoss))
	} else {
		verdict.Messages = append(verdict.Messages, "daily loss limit OK")
	}

	// Portfolio delta
	newDelta := math.Abs(e.portfolioDelta + signalDelta*float64(quantity))
	if newDelta > e.limits.MaxPortfolioDelta {
		verdict.Valid = false
		verdict.Messages = append(verdict.Messages,
			fmt.Sprintf("portfolio delta %.2f would exceed max %.2f",
				newDelta, e.limits.MaxPortfolioDelta))
	} else {
		verdict.Messages = append(verdict.Messages, "portfolio delta OK")
	}

	return verdict
}

// UpdateDailyPnL adds realized P&L to the daily running total.
func (e *Engine) UpdateDailyPnL(pnl float64) {
	e.dailyPnL += pnl
}

// UpdatePortfolioDelta adds a delta change to the running portfolio delta.
func (e *Engine) UpdatePortfolioDelta(deltaChange float64) {
	e.portfolioDelta += deltaChange
}

// ResetDaily clears the daily P&L at the start of a trading day. The
// portfolio delta carries over: open positions do not disappear overnight.
func (e *Engine) ResetDaily() {
	e.dailyPnL = 0
}

// Summary reports the current risk headroom.
type Summary struct {
	DailyPnL               float64 `json:"daily_pnl"`
	PortfolioDelta         float64 `json:"portfolio_delta"`
	DailyLossLimit         float64 `json:"daily_loss_limit"`
	RemainingLossCapacity  float64 `json:"remaining_loss_capacity"`
	DeltaLimit             float64 `json:"delta_limit"`
	RemainingDeltaCapacity float64 `json:"remaining_delta_capacity"`
}

// GetSummary returns current totals and the remaining capacity to each limit.
func (e *Engine) GetSummary() Summary {
	return Summary{
		DailyPnL:               e.dailyPnL,
		PortfolioDelta:         e.portfolioDelta,
		DailyLossLimit:         e.limits.MaxDailyLoss,
		RemainingLossCapacity:  e.limits.MaxDailyLoss - math.Abs(e.dailyPnL),
		DeltaLimit:             e.limits.MaxPortfolioDelta,
		RemainingDeltaCapacity: e.limits.MaxPortfolioDelta - math.Abs(e.portfolioDelta),
	}
}
