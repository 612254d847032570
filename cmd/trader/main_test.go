package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantlance/ai-options-trader/internal/config"
)

// TestApplyOverrides_DryRunForcesPaper tests that dry-run can never reach a
// live broker, even combined with an explicit broker flag
func TestApplyOverrides_DryRunForcesPaper(t *testing.T) {
	cfg := config.Default()
	cfg.Broker.Name = "alpaca"

	applyOverrides(cfg, "", 0, true)
	assert.Equal(t, "paper", cfg.Broker.Name)

	cfg.Broker.Name = "alpaca"
	applyOverrides(cfg, "alpaca", 0, true)
	assert.Equal(t, "paper", cfg.Broker.Name)
}

// TestApplyOverrides_BrokerFlag tests the explicit broker override
func TestApplyOverrides_BrokerFlag(t *testing.T) {
	cfg := config.Default()

	applyOverrides(cfg, "alpaca", 0, false)
	assert.Equal(t, "alpaca", cfg.Broker.Name)
}

// TestApplyOverrides_Interval tests that only positive intervals override
func TestApplyOverrides_Interval(t *testing.T) {
	cfg := config.Default()

	applyOverrides(cfg, "", 60, false)
	assert.Equal(t, 60, cfg.Trading.IntervalSecs)

	applyOverrides(cfg, "", 0, false)
	assert.Equal(t, 60, cfg.Trading.IntervalSecs)
}

// TestApplyOverrides_NoFlags tests that defaults pass through untouched
func TestApplyOverrides_NoFlags(t *testing.T) {
	cfg := config.Default()

	applyOverrides(cfg, "", 0, false)
	assert.Equal(t, "paper", cfg.Broker.Name)
	assert.Equal(t, 300, cfg.Trading.IntervalSecs)
}
