package signal

import (
	"fmt"

	"github.com/quantlance/ai-options-trader/internal/marketdata"
	"github.com/quantlance/ai-options-trader/internal/predictor"
)

// FilterConfig holds the confidence gate and the acceptable Greek ranges.
// ThetaFloor is negative: theta must stay above it (decay not too steep).
type FilterConfig struct {
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	DeltaMin            float64 `json:"delta_min"`
	DeltaMax            float64 `json:"delta_max"`
	GammaMax            float64 `json:"gamma_max"`
	VegaMin             float64 `json:"vega_min"`
	ThetaFloor          float64 `json:"theta_floor"`
}

// DefaultFilterConfig mirrors the production Greek profile.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		ConfidenceThreshold: 0.8,
		DeltaMin:            0.3,
		DeltaMax:            0.7,
		GammaMax:            0.2,
		VegaMin:             0.1,
		ThetaFloor:          -0.05,
	}
}

// Decision is the filter verdict with every failed reason collected, so the
// journal can record exactly why a signal was skipped.
type Decision struct {
	Accepted bool
	Reasons  []string
}

// Reason joins the failure reasons for journaling; "ok" when accepted.
func (d Decision) Reason() string {
	if d.Accepted {
		return "ok"
	}
	out := ""
	for i, r := range d.Reasons {
		if i > 0 {
			out += "; "
		}
		out += r
	}
	return out
}

// Filter is a pure predicate over a prediction and its originating feature
// row. It has no state and no side effects.
type Filter struct {
	config FilterConfig
}

// NewFilter creates a signal filter with the given thresholds.
func NewFilter(cfg FilterConfig) *Filter {
	return &Filter{config: cfg}
}

// Evaluate gates a prediction on confidence and the row's Greek profile.
// The delta range is inclusive at both ends; confidence at the threshold
// passes.
func (f *Filter) Evaluate(pred predictor.Prediction, row marketdata.FeatureRow) Decision {
	var reasons []string

	if pred.Confidence < f.config.ConfidenceThreshold {
		reasons = append(reasons, fmt.Sprintf("confidence %.2f below threshold %.2f",
			pred.Confidence, f.config.ConfidenceThreshold))
	}
	if row.Delta < f.config.DeltaMin || row.Delta > f.config.DeltaMax {
		reasons = append(reasons, fmt.Sprintf("delta %.2f outside [%.2f, %.2f]",
			row.Delta, f.config.DeltaMin, f.config.DeltaMax))
	}
	if row.Gamma >= f.config.GammaMax {
		reasons = append(reasons, fmt.Sprintf("gamma %.3f not below max %.3f",
			row.Gamma, f.config.GammaMax))
	}
	if row.Vega <= f.config.VegaMin {
		reasons = append(reasons, fmt.Sprintf("vega %.3f not above min %.3f",
			row.Vega, f.config.VegaMin))
	}
	if row.Theta <= f.config.ThetaFloor {
		reasons = append(reasons, fmt.Sprintf("theta %.3f decay too steep (floor %.3f)",
			row.Theta, f.config.ThetaFloor))
	}

	return Decision{Accepted: len(reasons) == 0, Reasons: reasons}
}
