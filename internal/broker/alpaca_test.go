package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOCCSymbol tests the OCC contract symbol encoding
func TestOCCSymbol(t *testing.T) {
	tests := []struct {
		name string
		req  OrderRequest
		want string
	}{
		{
			"whole dollar call",
			OrderRequest{Symbol: "AAPL", Right: RightCall, Strike: 180, Expiry: "20261218"},
			"AAPL261218C00180000",
		},
		{
			"fractional strike put",
			OrderRequest{Symbol: "SPY", Right: RightPut, Strike: 182.5, Expiry: "20260904"},
			"SPY260904P00182500",
		},
		{
			"high strike",
			OrderRequest{Symbol: "NVDA", Right: RightCall, Strike: 1200, Expiry: "20260918"},
			"NVDA260918C01200000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := occSymbol(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestOCCSymbol_RejectsBadExpiry tests expiry validation
func TestOCCSymbol_RejectsBadExpiry(t *testing.T) {
	_, err := occSymbol(OrderRequest{Symbol: "AAPL", Right: RightCall, Strike: 180, Expiry: "2026-12-18"})
	assert.Error(t, err)
}

// TestAlpacaSide tests the action mapping
func TestAlpacaSide(t *testing.T) {
	assert.Equal(t, "buy", alpacaSide(ActionBuy))
	assert.Equal(t, "sell", alpacaSide(ActionSell))
}

// TestNewAlpacaBroker_EnvironmentSelection tests paper vs live base URLs
func TestNewAlpacaBroker_EnvironmentSelection(t *testing.T) {
	paper := NewAlpacaBroker("key", "secret", true)
	assert.Equal(t, alpacaPaperURL, paper.baseURL)

	live := NewAlpacaBroker("key", "secret", false)
	assert.Equal(t, alpacaLiveURL, live.baseURL)
}
