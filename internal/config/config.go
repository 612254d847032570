package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quantlance/ai-options-trader/internal/broker"
	"github.com/quantlance/ai-options-trader/internal/connection"
	"github.com/quantlance/ai-options-trader/internal/risk"
	"github.com/quantlance/ai-options-trader/internal/signal"
)

// Config is the full runtime configuration for the trader. Loaded from a
// JSON file when one is given, otherwise built from defaults; a handful of
// environment variables override either source.
type Config struct {
	Trading       TradingConfig       `json:"trading"`
	Filters       signal.FilterConfig `json:"filters"`
	Risk          risk.Limits         `json:"risk"`
	Broker        broker.BrokerConfig `json:"broker"`
	Connection    connection.Config   `json:"connection"`
	Model         ModelConfig         `json:"model"`
	Monitoring    MonitoringConfig    `json:"monitoring"`
	Notifications NotificationsConfig `json:"notifications"`
	Journal       JournalConfig       `json:"journal"`
}

// TradingConfig controls what the decision loop trades and how often.
type TradingConfig struct {
	Symbols      []string `json:"symbols"`
	Quantity     int      `json:"quantity"`
	IntervalSecs int      `json:"interval_seconds"`
	StaticStrike float64  `json:"static_strike"`
	StatePath    string   `json:"state_path"`
}

// Interval returns the cycle interval as a duration.
func (t TradingConfig) Interval() time.Duration {
	return time.Duration(t.IntervalSecs) * time.Second
}

// ModelConfig selects and locates the prediction model.
type ModelConfig struct {
	// Kind is "onnx" or "momentum". Momentum needs no model file.
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// MonitoringConfig holds the ports for the metrics and health endpoints.
// Zero ports disable the respective server.
type MonitoringConfig struct {
	PrometheusPort int `json:"prometheus_port"`
	HealthPort     int `json:"health_port"`
}

// NotificationsConfig configures the optional Telegram alerter.
type NotificationsConfig struct {
	TelegramToken  string `json:"telegram_token"`
	TelegramChatID string `json:"telegram_chat_id"`
}

// JournalConfig locates the CSV trade and signal ledgers.
type JournalConfig struct {
	Dir string `json:"dir"`
}

// Default returns the stock configuration: paper broker, momentum model,
// the standard watchlist and production filter and risk thresholds.
func Default() *Config {
	return &Config{
		Trading: TradingConfig{
			Symbols:      []string{"AAPL", "TSLA", "MSFT", "NVDA", "SPY", "QQQ"},
			Quantity:     1,
			IntervalSecs: 300,
			StaticStrike: 180,
			StatePath:    "data/portfolio_state.json",
		},
		Filters:    signal.DefaultFilterConfig(),
		Risk:       risk.DefaultLimits(),
		Broker:     broker.BrokerConfig{Name: "paper"},
		Connection: connection.DefaultConfig(),
		Model:      ModelConfig{Kind: "momentum"},
		Monitoring: MonitoringConfig{
			PrometheusPort: 8080,
			HealthPort:     8081,
		},
		Journal: JournalConfig{Dir: "data"},
	}
}

// Load reads the JSON config at path, fills gaps with defaults, applies
// environment overrides and validates the result. An empty path loads
// defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers environment settings on top of the file values.
// Credentials in particular are expected to arrive this way rather than
// being committed in a config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADING_SYMBOLS"); v != "" {
		parts := strings.Split(v, ",")
		symbols := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				symbols = append(symbols, strings.ToUpper(s))
			}
		}
		if len(symbols) > 0 {
			cfg.Trading.Symbols = symbols
		}
	}
	if v := getEnvInt("TRADING_INTERVAL_SECONDS"); v > 0 {
		cfg.Trading.IntervalSecs = v
	}
	if v := getEnvInt("TRADING_QUANTITY"); v > 0 {
		cfg.Trading.Quantity = v
	}
	if v := getEnvFloat("CONFIDENCE_THRESHOLD"); v > 0 {
		cfg.Filters.ConfidenceThreshold = v
	}
	if v := getEnvFloat("MAX_DAILY_LOSS"); v > 0 {
		cfg.Risk.MaxDailyLoss = v
	}
	if v := getEnvInt("MAX_POSITION_SIZE"); v > 0 {
		cfg.Risk.MaxPositionSize = v
	}
	if v := os.Getenv("BROKER_NAME"); v != "" {
		cfg.Broker.Name = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.Model.Kind = "onnx"
		cfg.Model.Path = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Notifications.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notifications.TelegramChatID = v
	}
}

// Validate rejects configurations the trader cannot safely run with.
func (c *Config) Validate() error {
	if len(c.Trading.Symbols) == 0 {
		return fmt.Errorf("at least one trading symbol is required")
	}
	if c.Trading.Quantity <= 0 {
		return fmt.Errorf("trading quantity must be positive, got %d", c.Trading.Quantity)
	}
	if c.Trading.IntervalSecs <= 0 {
		return fmt.Errorf("trading interval must be positive, got %d", c.Trading.IntervalSecs)
	}
	if c.Filters.ConfidenceThreshold < 0 || c.Filters.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be in [0, 1], got %g", c.Filters.ConfidenceThreshold)
	}
	if c.Filters.DeltaMin > c.Filters.DeltaMax {
		return fmt.Errorf("delta_min %g exceeds delta_max %g", c.Filters.DeltaMin, c.Filters.DeltaMax)
	}
	if c.Risk.MaxPositionSize <= 0 {
		return fmt.Errorf("max position size must be positive, got %d", c.Risk.MaxPositionSize)
	}
	if c.Risk.MaxDailyLoss <= 0 {
		return fmt.Errorf("max daily loss must be positive, got %g", c.Risk.MaxDailyLoss)
	}
	if c.Risk.MaxPortfolioDelta <= 0 {
		return fmt.Errorf("max portfolio delta must be positive, got %g", c.Risk.MaxPortfolioDelta)
	}
	switch c.Model.Kind {
	case "", "momentum":
	case "onnx":
		if c.Model.Path == "" {
			return fmt.Errorf("model kind onnx requires model.path")
		}
	default:
		return fmt.Errorf("unknown model kind %q", c.Model.Kind)
	}
	if c.Journal.Dir == "" {
		return fmt.Errorf("journal directory is required")
	}
	return nil
}

func getEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func getEnvFloat(key string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
