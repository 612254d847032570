package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlance/ai-options-trader/internal/marketdata"
)

func row(symbol string, ret, iv, theta float64) marketdata.FeatureRow {
	return marketdata.FeatureRow{Symbol: symbol, UnderlyingReturn1: ret, IV: iv, Theta: theta}
}

// TestPredict_DirectionFollowsMomentum tests the sign rule
func TestPredict_DirectionFollowsMomentum(t *testing.T) {
	p := NewMomentumPredictor()

	preds, err := p.Predict([]marketdata.FeatureRow{
		row("AAPL", 0.01, 0.3, -0.02),
		row("TSLA", -0.01, 0.3, -0.02),
		row("SPY", 0, 0.3, -0.02),
	})
	require.NoError(t, err)
	require.Len(t, preds, 3)

	assert.Equal(t, DirectionCall, preds[0].Direction)
	assert.Equal(t, DirectionPut, preds[1].Direction)
	assert.Equal(t, DirectionCall, preds[2].Direction) // flat counts as up
}

// TestPredict_PreservesInputOrder tests the one-per-row contract
func TestPredict_PreservesInputOrder(t *testing.T) {
	p := NewMomentumPredictor()

	symbols := []string{"AAPL", "TSLA", "MSFT", "NVDA"}
	rows := make([]marketdata.FeatureRow, 0, len(symbols))
	for _, s := range symbols {
		rows = append(rows, row(s, 0.01, 0.3, -0.02))
	}

	preds, err := p.Predict(rows)
	require.NoError(t, err)
	require.Len(t, preds, len(symbols))
	for i, s := range symbols {
		assert.Equal(t, s, preds[i].Symbol)
	}
}

// TestPredict_ConfidenceSaturates tests the momentum scaling cap
func TestPredict_ConfidenceSaturates(t *testing.T) {
	p := NewMomentumPredictor()

	preds, err := p.Predict([]marketdata.FeatureRow{
		row("AAPL", 0.05, 0.3, -0.02), // well past the 2% saturation point
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, preds[0].Confidence)
}

// TestPredict_PenalizesExtremeIV tests the volatility sanity cut
func TestPredict_PenalizesExtremeIV(t *testing.T) {
	p := NewMomentumPredictor()

	preds, err := p.Predict([]marketdata.FeatureRow{
		row("AAPL", 0.05, 0.3, -0.02),
		row("AAPL", 0.05, 0.95, -0.02),
	})
	require.NoError(t, err)
	assert.InDelta(t, preds[0].Confidence*0.5, preds[1].Confidence, 1e-9)
}

// TestPredict_PenalizesSteepDecay tests the theta cut
func TestPredict_PenalizesSteepDecay(t *testing.T) {
	p := NewMomentumPredictor()

	preds, err := p.Predict([]marketdata.FeatureRow{
		row("AAPL", 0.05, 0.3, -0.02),
		row("AAPL", 0.05, 0.3, -0.08),
	})
	require.NoError(t, err)
	assert.InDelta(t, preds[0].Confidence*0.8, preds[1].Confidence, 1e-9)
}

// TestPredict_ConfidenceInRange tests the [0,1] bound across inputs
func TestPredict_ConfidenceInRange(t *testing.T) {
	p := NewMomentumPredictor()

	inputs := []marketdata.FeatureRow{
		row("A", 0.5, 0.9, -0.5),
		row("B", -0.5, 0.05, -0.001),
		row("C", 0, 0.3, 0),
	}

	preds, err := p.Predict(inputs)
	require.NoError(t, err)
	for _, pred := range preds {
		assert.GreaterOrEqual(t, pred.Confidence, 0.0)
		assert.LessOrEqual(t, pred.Confidence, 1.0)
	}
}
