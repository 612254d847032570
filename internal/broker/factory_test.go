package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateBroker_DefaultsToPaper tests that an empty name builds the simulator
func TestCreateBroker_DefaultsToPaper(t *testing.T) {
	f := NewFactory()

	b, err := f.CreateBroker(BrokerConfig{})
	require.NoError(t, err)
	assert.Equal(t, "paper", b.GetName())

	b, err = f.CreateBroker(BrokerConfig{Name: "paper"})
	require.NoError(t, err)
	assert.Equal(t, "paper", b.GetName())
}

// TestCreateBroker_UnknownName tests the fail-fast on unsupported brokers
func TestCreateBroker_UnknownName(t *testing.T) {
	f := NewFactory()

	_, err := f.CreateBroker(BrokerConfig{Name: "robinhood"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

// TestCreateBroker_AlpacaMissingCredentials tests credential validation
func TestCreateBroker_AlpacaMissingCredentials(t *testing.T) {
	t.Setenv("ALPACA_API_KEY", "")
	t.Setenv("ALPACA_SECRET_KEY", "")

	f := NewFactory()

	_, err := f.CreateBroker(BrokerConfig{Name: "alpaca", Alpaca: &AlpacaConfig{}})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = f.CreateBroker(BrokerConfig{Name: "alpaca"})
	assert.Error(t, err)
}

// TestCreateBroker_AlpacaPlaceholderCredentials tests that example keys are refused
func TestCreateBroker_AlpacaPlaceholderCredentials(t *testing.T) {
	f := NewFactory()

	_, err := f.CreateBroker(BrokerConfig{Name: "alpaca", Alpaca: &AlpacaConfig{
		APIKey:    "your_api_key_here",
		APISecret: "your_secret_here",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "placeholder")
}

// TestCreateBroker_AlpacaEnvPlaceholderResolved tests ${VAR} resolution
func TestCreateBroker_AlpacaEnvPlaceholderResolved(t *testing.T) {
	t.Setenv("ALPACA_API_KEY", "PKTEST12345")
	t.Setenv("ALPACA_SECRET_KEY", "sk-test-67890")

	f := NewFactory()

	b, err := f.CreateBroker(BrokerConfig{Name: "alpaca", Alpaca: &AlpacaConfig{
		APIKey:    "${ALPACA_API_KEY}",
		APISecret: "${ALPACA_SECRET_KEY}",
		Paper:     true,
	}})
	require.NoError(t, err)
	assert.Equal(t, "alpaca", b.GetName())
}

// TestSupportedBrokers lists the factory surface
func TestSupportedBrokers(t *testing.T) {
	assert.Equal(t, []string{"paper", "alpaca"}, NewFactory().SupportedBrokers())
}
