package executor

import (
	"time"

	"github.com/quantlance/ai-options-trader/internal/marketdata"
)

// StrikePolicy chooses the strike for a new order from the feature row.
type StrikePolicy interface {
	Strike(row marketdata.FeatureRow) float64
}

// ExpiryPolicy chooses the contract expiry, formatted YYYYMMDD.
type ExpiryPolicy interface {
	Expiry(now time.Time) string
}

// StaticStrike always returns a fixed strike price.
type StaticStrike struct {
	Value float64
}

func (s StaticStrike) Strike(marketdata.FeatureRow) float64 { return s.Value }

// NearestStrike rounds the underlying's last price to the nearest Increment,
// approximating the at-the-money strike.
type NearestStrike struct {
	Increment float64
}

func (s NearestStrike) Strike(row marketdata.FeatureRow) float64 {
	inc := s.Increment
	if inc <= 0 {
		inc = 5
	}
	steps := int(row.UnderlyingClose/inc + 0.5)
	return float64(steps) * inc
}

// NextFriday targets the next weekly expiration.
type NextFriday struct{}

func (NextFriday) Expiry(now time.Time) string {
	daysAhead := int(time.Friday - now.Weekday())
	if daysAhead <= 0 {
		daysAhead += 7
	}
	return now.AddDate(0, 0, daysAhead).Format("20060102")
}

// DaysAhead targets the expiry a fixed number of days out.
type DaysAhead struct {
	Days int
}

func (d DaysAhead) Expiry(now time.Time) string {
	return now.AddDate(0, 0, d.Days).Format("20060102")
}
