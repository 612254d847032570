package predictor

import (
	"github.com/quantlance/ai-options-trader/internal/marketdata"
)

// Direction is the predicted option side for a symbol.
type Direction string

const (
	DirectionCall Direction = "CALL"
	DirectionPut  Direction = "PUT"
)

// Prediction is the model output for one feature row.
type Prediction struct {
	Symbol     string
	Direction  Direction
	Confidence float64 // in [0, 1]
}

// Predictor scores a batch of feature rows. Implementations must return
// exactly one prediction per input row, in input order.
type Predictor interface {
	Predict(rows []marketdata.FeatureRow) ([]Prediction, error)
	Close()
}
