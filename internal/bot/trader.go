package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/quantlance/ai-options-trader/internal/config"
	"github.com/quantlance/ai-options-trader/internal/connection"
	traderrors "github.com/quantlance/ai-options-trader/internal/errors"
	"github.com/quantlance/ai-options-trader/internal/executor"
	"github.com/quantlance/ai-options-trader/internal/journal"
	"github.com/quantlance/ai-options-trader/internal/logger"
	"github.com/quantlance/ai-options-trader/internal/marketdata"
	"github.com/quantlance/ai-options-trader/internal/monitoring"
	"github.com/quantlance/ai-options-trader/internal/notifications"
	"github.com/quantlance/ai-options-trader/internal/portfolio"
	"github.com/quantlance/ai-options-trader/internal/predictor"
	"github.com/quantlance/ai-options-trader/internal/risk"
	"github.com/quantlance/ai-options-trader/internal/signal"
)

// Phase is the lifecycle state of the trading loop.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseRunning
	PhaseSleeping
	PhaseStopping
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConnecting:
		return "connecting"
	case PhaseRunning:
		return "running"
	case PhaseSleeping:
		return "sleeping"
	case PhaseStopping:
		return "stopping"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// CycleResult summarizes one decision cycle for logging and tests.
type CycleResult struct {
	Rows     int
	Signals  int
	Executed int
	Rejected int
	Err      error
}

// Trader runs the decision loop: fetch features, predict, filter, check
// risk, execute, journal. One cycle per interval tick; a failed cycle is
// logged and the next tick proceeds normally.
type Trader struct {
	cfg *config.Config

	conn      *connection.Manager
	fetcher   *marketdata.Fetcher
	predictor predictor.Predictor
	filter    *signal.Filter
	riskEng   *risk.Engine
	tracker   *portfolio.Tracker
	journal   *journal.Journal
	exec      *executor.Executor
	logger    *logger.Logger
	notifier  notifications.Notifier
	health    *monitoring.HealthChecker

	phase      Phase
	stopChan   chan struct{}
	doneChan   chan struct{}
	cycleCount int
	tradingDay time.Time
}

// New wires a Trader from configuration and its pre-built collaborators.
// The broker handle inside conn is shared by the fetcher and executor.
func New(cfg *config.Config, conn *connection.Manager, pred predictor.Predictor, tracker *portfolio.Tracker, jrnl *journal.Journal, fileLogger *logger.Logger, notifier notifications.Notifier, health *monitoring.HealthChecker) *Trader {
	if notifier == nil {
		notifier = notifications.Noop{}
	}

	riskEng := risk.NewEngine(cfg.Risk)

	var strikePolicy executor.StrikePolicy
	if cfg.Trading.StaticStrike > 0 {
		strikePolicy = executor.StaticStrike{Value: cfg.Trading.StaticStrike}
	} else {
		strikePolicy = executor.NearestStrike{}
	}

	return &Trader{
		cfg:       cfg,
		conn:      conn,
		fetcher:   marketdata.NewFetcher(conn.Broker()),
		predictor: pred,
		filter:    signal.NewFilter(cfg.Filters),
		riskEng:   riskEng,
		tracker:   tracker,
		journal:   jrnl,
		exec:      executor.New(conn.Broker(), tracker, jrnl, riskEng, strikePolicy, executor.NextFriday{}),
		logger:    fileLogger,
		notifier:  notifier,
		health:    health,
		phase:     PhaseIdle,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

// Phase returns the current lifecycle phase.
func (t *Trader) Phase() Phase { return t.phase }

// RiskEngine exposes the engine for reporting.
func (t *Trader) RiskEngine() *risk.Engine { return t.riskEng }

// Run connects the broker and drives the decision loop until ctx is
// cancelled or Stop is called. A connect failure, including
// connection.ErrConnectionExhausted, is returned without entering the loop.
func (t *Trader) Run(ctx context.Context) error {
	t.phase = PhaseConnecting
	if err := t.conn.Connect(ctx); err != nil {
		t.phase = PhaseStopped
		monitoring.SetConnected(false)
		monitoring.RecordError(string(traderrors.CategoryConnection))
		close(t.doneChan)
		return err
	}
	monitoring.SetConnected(true)
	if t.health != nil {
		t.health.SetConnected(true)
	}

	t.logger.Info("Trading loop starting: %d symbols, %s interval",
		len(t.cfg.Trading.Symbols), t.cfg.Trading.Interval())
	t.notifier.SendAlert("success", fmt.Sprintf("Trading started on %v", t.cfg.Trading.Symbols))

	defer t.shutdown()

	// First cycle runs immediately; the ticker paces the rest.
	t.tradingDay = truncateToDay(time.Now())
	t.runCycle(ctx)

	ticker := time.NewTicker(t.cfg.Trading.Interval())
	defer ticker.Stop()

	for {
		t.phase = PhaseSleeping
		select {
		case <-ctx.Done():
			t.phase = PhaseStopping
			return nil
		case <-t.stopChan:
			t.phase = PhaseStopping
			return nil
		case <-ticker.C:
			t.runCycle(ctx)
		}
	}
}

// Stop requests a graceful stop. The in-flight cycle finishes; the loop
// exits at the next scheduling point. Safe to call more than once.
func (t *Trader) Stop() {
	select {
	case <-t.stopChan:
	default:
		close(t.stopChan)
	}
	<-t.doneChan
}

// shutdown disconnects and persists state. Runs exactly once, when the
// loop exits.
func (t *Trader) shutdown() {
	t.phase = PhaseStopping

	if err := portfolio.SaveState(t.tracker, t.cfg.Trading.StatePath); err != nil {
		t.logger.LogError("Failed to save portfolio state", err)
	}

	if err := t.conn.Disconnect(); err != nil {
		t.logger.LogError("Disconnect failed", err)
	}
	monitoring.SetConnected(false)
	if t.health != nil {
		t.health.SetConnected(false)
	}

	summary := t.tracker.GetSummary()
	t.logger.Info("Session closed: %d open positions, %d closed trades, realized P&L $%.2f",
		summary.OpenPositions, summary.ClosedTrades, summary.TotalPnL)
	t.notifier.SendAlert("info", fmt.Sprintf("Trading stopped. Realized P&L: $%.2f", summary.TotalPnL))

	t.phase = PhaseStopped
	close(t.doneChan)
}

// runCycle performs one fetch-predict-filter-risk-execute pass. Failures
// are contained here: a panic or error in one cycle never takes down the
// loop.
func (t *Trader) runCycle(ctx context.Context) (result CycleResult) {
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("cycle panic: %v", r)
			t.logger.Error("Recovered from cycle panic: %v", r)
			monitoring.RecordError("panic")
		}
	}()

	t.phase = PhaseRunning
	t.cycleCount++
	t.rollTradingDay()

	rows, err := t.fetcher.Snapshot(ctx, t.cfg.Trading.Symbols)
	if err != nil {
		t.logger.LogError("Market data snapshot failed", err)
		monitoring.RecordError(string(traderrors.Classify(err)))
		result.Err = err
		return result
	}
	result.Rows = len(rows)

	for _, row := range rows {
		monitoring.UpdatePrice(row.Symbol, row.UnderlyingClose)
	}

	preds, err := t.predictor.Predict(rows)
	if err != nil {
		t.logger.LogError("Prediction failed", err)
		monitoring.RecordError(string(traderrors.Classify(err)))
		result.Err = err
		return result
	}
	result.Signals = len(preds)

	for i, pred := range preds {
		if t.processSignal(ctx, pred, rows[i]) {
			result.Executed++
		} else {
			result.Rejected++
		}
	}

	monitoring.RecordCycle()
	if t.health != nil {
		t.health.MarkCycle()
	}
	t.logger.LogCycleSummary(t.cycleCount, result.Rows, result.Signals, result.Executed, result.Rejected)

	return result
}

// processSignal runs one prediction through the filter, the risk engine and
// the executor, journaling the outcome at every gate. Returns true when an
// order was executed.
func (t *Trader) processSignal(ctx context.Context, pred predictor.Prediction, row marketdata.FeatureRow) bool {
	monitoring.UpdateConfidence(pred.Symbol, pred.Confidence)

	decision := t.filter.Evaluate(pred, row)
	if !decision.Accepted {
		t.logSignal(pred, false, decision.Reason())
		monitoring.RecordSignal("filtered")
		return false
	}

	verdict := t.riskEng.ValidateTrade(t.cfg.Trading.Quantity, row.Delta, 0)
	if !verdict.Valid {
		t.logger.Warning("Risk check rejected %s %s: %s", pred.Symbol, pred.Direction, verdict.Reason())
		t.logSignal(pred, false, verdict.Reason())
		monitoring.RecordSignal("risk_rejected")
		return false
	}

	orderResult, err := t.exec.Execute(ctx, pred, row, t.cfg.Trading.Quantity)
	if err != nil {
		t.logger.LogError(fmt.Sprintf("Order for %s %s failed", pred.Symbol, pred.Direction), err)
		t.logSignal(pred, false, err.Error())
		monitoring.RecordSignal("failed")
		monitoring.RecordError(string(traderrors.Classify(err)))
		if t.health != nil {
			t.health.RecordError(err.Error())
		}
		return false
	}

	t.logSignal(pred, true, "executed")
	monitoring.RecordSignal("executed")
	monitoring.RecordTrade(pred.Symbol, string(pred.Direction), orderResult.FillPrice)
	if t.health != nil {
		t.health.MarkTrade()
	}

	req := orderResult.Request
	t.logger.LogTradeExecution(req.Symbol, string(req.Right), req.Strike, req.Expiry,
		req.Quantity, orderResult.FillPrice, orderResult.OrderID)
	t.notifier.SendTradeFill(notifications.TradeFill{
		Symbol:     req.Symbol,
		Right:      string(req.Right),
		Strike:     req.Strike,
		Expiry:     req.Expiry,
		Quantity:   req.Quantity,
		FillPrice:  orderResult.FillPrice,
		OrderID:    orderResult.OrderID,
		Confidence: pred.Confidence,
	})

	return true
}

func (t *Trader) logSignal(pred predictor.Prediction, traded bool, reason string) {
	err := t.journal.LogSignal(journal.SignalRecord{
		Symbol:     pred.Symbol,
		Prediction: string(pred.Direction),
		Confidence: pred.Confidence,
		Traded:     traded,
		Reason:     reason,
	})
	if err != nil {
		t.logger.LogError("Failed to journal signal", err)
	}
}

// rollTradingDay resets the daily loss total when the calendar day changes
// between cycles. Portfolio delta carries across days.
func (t *Trader) rollTradingDay() {
	today := truncateToDay(time.Now())
	if today.After(t.tradingDay) {
		t.logger.Info("New trading day %s: daily loss total reset", today.Format("2006-01-02"))
		t.riskEng.ResetDaily()
		t.tradingDay = today
	}
}

func truncateToDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}
