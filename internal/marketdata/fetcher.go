package marketdata

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/quantlance/ai-options-trader/internal/broker"
)

// FeatureRow is one model input row: the live quote for an underlying plus
// the option sensitivity profile. Greeks are mocked upstream for now; the
// predictor and filter only consume them as numbers.
type FeatureRow struct {
	Symbol            string
	Delta             float64
	Gamma             float64
	Vega              float64
	Theta             float64
	IV                float64
	UnderlyingClose   float64
	Volume            float64
	UnderlyingReturn1 float64
	FetchedAt         time.Time
}

// Fetcher assembles per-symbol feature rows from broker market data.
type Fetcher struct {
	broker    broker.Broker
	rng       *rand.Rand
	prevClose map[string]float64
}

// NewFetcher creates a feature-row fetcher backed by the given broker.
func NewFetcher(b broker.Broker) *Fetcher {
	return &Fetcher{
		broker:    b,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		prevClose: make(map[string]float64),
	}
}

// Snapshot fetches market data for every symbol and builds one feature row
// per successful fetch. A symbol that fails is logged and skipped; the
// snapshot as a whole fails only when no symbol could be fetched at all.
func (f *Fetcher) Snapshot(ctx context.Context, symbols []string) ([]FeatureRow, error) {
	rows := make([]FeatureRow, 0, len(symbols))
	var lastErr error

	for _, symbol := range symbols {
		md, err := f.broker.FetchMarketData(ctx, symbol)
		if err != nil {
			log.Printf("Skipping %s: market data fetch failed: %v", symbol, err)
			lastErr = err
			continue
		}
		rows = append(rows, f.buildRow(symbol, md))
	}

	if len(rows) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("market data unavailable for all %d symbols: %w", len(symbols), lastErr)
		}
		return nil, fmt.Errorf("no symbols configured")
	}
	return rows, nil
}

// buildRow attaches a mocked Greek profile to the live quote. The uniform
// ranges match the upstream data feed until live Greeks are wired in.
func (f *Fetcher) buildRow(symbol string, md *broker.MarketData) FeatureRow {
	last := md.LastPrice
	if last <= 0 {
		last = 100.0
	}

	// One-period return against the previous snapshot; zero on first sight.
	ret := 0.0
	if prev, ok := f.prevClose[symbol]; ok && prev > 0 {
		ret = (last - prev) / prev
	}
	f.prevClose[symbol] = last

	return FeatureRow{
		Symbol:            symbol,
		Delta:             round2(f.uniform(0.3, 0.7)),
		Gamma:             round3(f.uniform(0.01, 0.15)),
		Vega:              round3(f.uniform(0.05, 0.25)),
		Theta:             round3(f.uniform(-0.1, -0.01)),
		IV:                round3(f.uniform(0.2, 0.5)),
		UnderlyingClose:   last,
		Volume:            md.Volume,
		UnderlyingReturn1: ret,
		FetchedAt:         md.Timestamp,
	}
}

func (f *Fetcher) uniform(lo, hi float64) float64 {
	return lo + f.rng.Float64()*(hi-lo)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
