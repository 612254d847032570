package predictor

import (
	"fmt"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/quantlance/ai-options-trader/internal/marketdata"
)

// featureCount matches the training feature order:
// delta, gamma, vega, theta, iv, underlying_return_1d, volume.
const featureCount = 7

// ONNXPredictor runs the exported direction model through onnxruntime.
// The model takes one 7-feature row and emits two class probabilities
// (PUT, CALL); confidence is the winning probability.
type ONNXPredictor struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// InitializeRuntime points onnxruntime_go at the platform shared library.
func InitializeRuntime() error {
	libPath := "/usr/lib/libonnxruntime.so"
	if runtime.GOOS == "windows" {
		libPath = "onnxruntime.dll"
	} else if runtime.GOOS == "darwin" {
		libPath = "libonnxruntime.dylib"
	}
	ort.SetSharedLibraryPath(libPath)
	return ort.InitializeEnvironment()
}

// NewONNXPredictor loads the model at modelPath and prepares a reusable
// single-row inference session.
func NewONNXPredictor(modelPath string) (*ONNXPredictor, error) {
	_ = InitializeRuntime()

	inputShape := ort.NewShape(1, featureCount)
	inputTensor, err := ort.NewTensor(inputShape, make([]float32, featureCount))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %v", err)
	}

	outputShape := ort.NewShape(1, 2)
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %v", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.Value{inputTensor}, []ort.Value{outputTensor}, nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create session: %v", err)
	}

	return &ONNXPredictor{
		session: session,
		input:   inputTensor,
		output:  outputTensor,
	}, nil
}

// Predict scores each row in order, one inference per row.
func (p *ONNXPredictor) Predict(rows []marketdata.FeatureRow) ([]Prediction, error) {
	results := make([]Prediction, 0, len(rows))

	for _, row := range rows {
		data := p.input.GetData()
		data[0] = float32(row.Delta)
		data[1] = float32(row.Gamma)
		data[2] = float32(row.Vega)
		data[3] = float32(row.Theta)
		data[4] = float32(row.IV)
		data[5] = float32(row.UnderlyingReturn1)
		data[6] = float32(row.Volume)

		if err := p.session.Run(); err != nil {
			return nil, fmt.Errorf("inference failed for %s: %v", row.Symbol, err)
		}

		probs := p.output.GetData()
		pred := Prediction{Symbol: row.Symbol, Direction: DirectionPut, Confidence: float64(probs[0])}
		if probs[1] >= probs[0] {
			pred.Direction = DirectionCall
			pred.Confidence = float64(probs[1])
		}
		results = append(results, pred)
	}
	return results, nil
}

// Close releases the onnxruntime session and tensors.
func (p *ONNXPredictor) Close() {
	if p.session != nil {
		p.session.Destroy()
	}
	if p.input != nil {
		p.input.Destroy()
	}
	if p.output != nil {
		p.output.Destroy()
	}
}
