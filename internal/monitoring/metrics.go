package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Trading metrics
	tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "options_trader_trades_total",
			Help: "Total number of option orders executed",
		},
		[]string{"symbol", "right"},
	)

	fillPremium = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "options_trader_fill_premium",
			Help:    "Distribution of per-contract fill premiums",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"symbol"},
	)

	// Signal metrics
	signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "options_trader_signals_total",
			Help: "Signals evaluated, by outcome",
		},
		[]string{"decision"},
	)

	predictionConfidence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "options_trader_prediction_confidence",
			Help: "Latest model confidence per symbol",
		},
		[]string{"symbol"},
	)

	// Market data metrics
	underlyingPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "options_trader_underlying_price",
			Help: "Latest underlying price per symbol",
		},
		[]string{"symbol"},
	)

	// Loop metrics
	cyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "options_trader_cycles_total",
			Help: "Completed decision cycles",
		},
	)

	connectionState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "options_trader_connection_state",
			Help: "Broker connection state (1 connected, 0 not)",
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "options_trader_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(tradesTotal)
	prometheus.MustRegister(fillPremium)
	prometheus.MustRegister(signalsTotal)
	prometheus.MustRegister(predictionConfidence)
	prometheus.MustRegister(underlyingPrice)
	prometheus.MustRegister(cyclesTotal)
	prometheus.MustRegister(connectionState)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordTrade records an executed order
func RecordTrade(symbol, right string, premium float64) {
	tradesTotal.WithLabelValues(symbol, right).Inc()
	fillPremium.WithLabelValues(symbol).Observe(premium)
}

// RecordSignal counts a signal outcome: executed, filtered, risk_rejected
// or failed.
func RecordSignal(decision string) {
	signalsTotal.WithLabelValues(decision).Inc()
}

// UpdateConfidence updates the latest model confidence for a symbol
func UpdateConfidence(symbol string, confidence float64) {
	predictionConfidence.WithLabelValues(symbol).Set(confidence)
}

// UpdatePrice updates the latest underlying price for a symbol
func UpdatePrice(symbol string, price float64) {
	underlyingPrice.WithLabelValues(symbol).Set(price)
}

// RecordCycle counts one completed decision cycle
func RecordCycle() {
	cyclesTotal.Inc()
}

// SetConnected publishes the broker connection state
func SetConnected(connected bool) {
	if connected {
		connectionState.Set(1)
	} else {
		connectionState.Set(0)
	}
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
