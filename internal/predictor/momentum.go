package predictor

import (
	"math"

	"github.com/quantlance/ai-options-trader/internal/marketdata"
)

// MomentumPredictor is the deterministic fallback used when no ONNX model is
// configured. It leans on the same entry heuristics the rule engine uses:
// positive one-day momentum favors calls, steep decay and extreme IV cut
// confidence.
type MomentumPredictor struct {
	momentumThreshold float64
}

// NewMomentumPredictor creates the heuristic predictor.
func NewMomentumPredictor() *MomentumPredictor {
	return &MomentumPredictor{momentumThreshold: 0.02}
}

// Predict emits one prediction per row, in input order.
func (p *MomentumPredictor) Predict(rows []marketdata.FeatureRow) ([]Prediction, error) {
	results := make([]Prediction, 0, len(rows))
	for _, row := range rows {
		results = append(results, p.score(row))
	}
	return results, nil
}

func (p *MomentumPredictor) score(row marketdata.FeatureRow) Prediction {
	direction := DirectionPut
	if row.UnderlyingReturn1 >= 0 {
		direction = DirectionCall
	}

	// Base confidence from momentum magnitude, saturating at the threshold.
	confidence := 0.5 + 0.5*math.Min(math.Abs(row.UnderlyingReturn1)/p.momentumThreshold, 1.0)

	// Penalize unreasonable IV: outside (0.1, 0.8) the signal is untradeable.
	if row.IV <= 0.1 || row.IV >= 0.8 {
		confidence *= 0.5
	}
	// Penalize steep time decay.
	if row.Theta < -0.05 {
		confidence *= 0.8
	}

	if confidence > 1 {
		confidence = 1
	}
	return Prediction{Symbol: row.Symbol, Direction: direction, Confidence: confidence}
}

// Close is a no-op; the heuristic holds no resources.
func (p *MomentumPredictor) Close() {}
