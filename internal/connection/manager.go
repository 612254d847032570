package connection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/quantlance/ai-options-trader/internal/broker"
)

// State describes the lifecycle of the broker session owned by the Manager.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrConnectionExhausted is returned once every configured connect attempt
// has failed. It is terminal: the caller is expected to halt, not retry.
var ErrConnectionExhausted = errors.New("connection attempts exhausted")

// Config bounds the connect retry behavior. The delay is fixed, not
// exponential: an unreachable broker should fail fast and loudly.
type Config struct {
	MaxAttempts int           `json:"max_attempts"`
	RetryDelay  time.Duration `json:"retry_delay"`
}

// DefaultConfig returns the retry settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		RetryDelay:  5 * time.Second,
	}
}

// Manager owns the broker handle and its connection state. All state
// transitions happen through Connect and Disconnect.
type Manager struct {
	broker broker.Broker
	config Config
	state  State
}

// NewManager wraps a broker with bounded-retry connection management.
func NewManager(b broker.Broker, cfg Config) *Manager {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultConfig().RetryDelay
	}
	return &Manager{
		broker: b,
		config: cfg,
		state:  StateDisconnected,
	}
}

// Broker exposes the managed broker handle for trading and data calls.
func (m *Manager) Broker() broker.Broker { return m.broker }

// State returns the current connection state.
func (m *Manager) State() State { return m.state }

// IsConnected is a cheap state query; it never performs I/O.
func (m *Manager) IsConnected() bool { return m.state == StateConnected }

// Connect attempts to establish the broker session, retrying up to
// MaxAttempts times with a fixed delay between attempts. On exhaustion the
// state becomes Failed and ErrConnectionExhausted is returned.
func (m *Manager) Connect(ctx context.Context) error {
	m.state = StateConnecting

	var lastErr error
	for attempt := 1; attempt <= m.config.MaxAttempts; attempt++ {
		log.Printf("Connecting to %s broker (attempt %d/%d)...",
			m.broker.GetName(), attempt, m.config.MaxAttempts)

		err := m.broker.Connect(ctx)
		if err == nil {
			m.state = StateConnected
			log.Printf("Connected to %s broker", m.broker.GetName())
			return nil
		}
		lastErr = err
		log.Printf("Connection attempt %d/%d failed: %v", attempt, m.config.MaxAttempts, err)

		if attempt == m.config.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			m.state = StateFailed
			return ctx.Err()
		case <-time.After(m.config.RetryDelay):
		}
	}

	m.state = StateFailed
	return fmt.Errorf("%w after %d attempts: %v", ErrConnectionExhausted, m.config.MaxAttempts, lastErr)
}

// Disconnect tears down the broker session. Idempotent: calling it when
// already disconnected is a no-op.
func (m *Manager) Disconnect() error {
	if m.state == StateDisconnected {
		return nil
	}
	err := m.broker.Disconnect()
	m.state = StateDisconnected
	if err != nil {
		return fmt.Errorf("broker disconnect: %w", err)
	}
	log.Printf("Disconnected from %s broker", m.broker.GetName())
	return nil
}
