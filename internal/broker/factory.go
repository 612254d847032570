package broker

import (
	"fmt"
	"os"
	"strings"
)

// BrokerConfig selects and parameterizes the brokerage connector.
type BrokerConfig struct {
	Name   string        `json:"name"`
	Paper  *PaperConfig  `json:"paper,omitempty"`
	Alpaca *AlpacaConfig `json:"alpaca,omitempty"`
}

// PaperConfig parameterizes the simulated broker.
type PaperConfig struct {
	StartingCash float64 `json:"starting_cash"`
}

// AlpacaConfig holds Alpaca credentials and environment selection.
// ${VAR} placeholders are resolved from the environment at construction.
type AlpacaConfig struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	Paper     bool   `json:"paper"`
}

// Factory creates broker instances based on configuration
type Factory struct{}

// NewFactory creates a new broker factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// CreateBroker creates a broker instance for the configured name. Unknown
// names and missing credentials fail here, before any component is wired.
func (f *Factory) CreateBroker(config BrokerConfig) (Broker, error) {
	switch strings.ToLower(strings.TrimSpace(config.Name)) {
	case "paper", "":
		return f.createPaperBroker(config.Paper), nil
	case "alpaca":
		return f.createAlpacaBroker(config.Alpaca)
	default:
		return nil, &BrokerError{
			Code:        "UNSUPPORTED_BROKER",
			Message:     fmt.Sprintf("Broker '%s' is not supported", config.Name),
			Details:     fmt.Sprintf("Supported brokers: %v", f.SupportedBrokers()),
			IsRetryable: false,
		}
	}
}

// SupportedBrokers returns the list of broker names the factory can build.
func (f *Factory) SupportedBrokers() []string {
	return []string{"paper", "alpaca"}
}

func (f *Factory) createPaperBroker(cfg *PaperConfig) *PaperBroker {
	cash := 0.0
	if cfg != nil {
		cash = cfg.StartingCash
	}
	return NewPaperBroker(cash)
}

func (f *Factory) createAlpacaBroker(cfg *AlpacaConfig) (Broker, error) {
	if cfg == nil {
		return nil, NewBrokerError("MISSING_CONFIG", "Alpaca configuration is missing", "", false)
	}

	apiKey := resolveEnvPlaceholder(cfg.APIKey, "ALPACA_API_KEY")
	apiSecret := resolveEnvPlaceholder(cfg.APISecret, "ALPACA_SECRET_KEY")

	if apiKey == "" || apiSecret == "" {
		return nil, ErrMissingCredentials
	}
	if isPlaceholderCredential(apiKey) || isPlaceholderCredential(apiSecret) {
		return nil, NewBrokerError("MISSING_CREDENTIALS",
			"Alpaca credentials look like placeholders",
			"replace the example values with real API keys", false)
	}

	return NewAlpacaBroker(apiKey, apiSecret, cfg.Paper), nil
}

// resolveEnvPlaceholder returns the env value when the configured value is
// empty or still a ${VAR} reference.
func resolveEnvPlaceholder(value, envKey string) string {
	if value == "" || value == "${"+envKey+"}" {
		return os.Getenv(envKey)
	}
	return value
}

func isPlaceholderCredential(v string) bool {
	lower := strings.ToLower(v)
	for _, pattern := range []string{"your_", "placeholder", "example", "change_me"} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
