package connection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlance/ai-options-trader/internal/broker"
)

// flakyBroker fails Connect a configurable number of times before
// succeeding, and counts every attempt.
type flakyBroker struct {
	failures    int
	attempts    int
	connected   bool
	disconnects int
}

func (f *flakyBroker) GetName() string { return "flaky" }

func (f *flakyBroker) Connect(ctx context.Context) error {
	f.attempts++
	if f.attempts <= f.failures {
		return broker.NewBrokerError("CONNECT_FAILED", "simulated failure", "", true)
	}
	f.connected = true
	return nil
}

func (f *flakyBroker) Disconnect() error {
	f.disconnects++
	f.connected = false
	return nil
}

func (f *flakyBroker) IsConnected() bool { return f.connected }

func (f *flakyBroker) SubmitOptionOrder(ctx context.Context, req broker.OrderRequest) (*broker.OrderResult, error) {
	return nil, broker.ErrNotConnected
}

func (f *flakyBroker) FetchMarketData(ctx context.Context, symbol string) (*broker.MarketData, error) {
	return nil, broker.ErrNotConnected
}

func (f *flakyBroker) GetAccountInfo(ctx context.Context) (*broker.AccountInfo, error) {
	return nil, broker.ErrNotConnected
}

func fastConfig() Config {
	return Config{MaxAttempts: 3, RetryDelay: time.Millisecond}
}

// TestConnect_SucceedsFirstAttempt tests the no-retry happy path
func TestConnect_SucceedsFirstAttempt(t *testing.T) {
	fb := &flakyBroker{failures: 0}
	m := NewManager(fb, fastConfig())

	require.NoError(t, m.Connect(context.Background()))

	assert.Equal(t, 1, fb.attempts)
	assert.Equal(t, StateConnected, m.State())
	assert.True(t, m.IsConnected())
}

// TestConnect_RetriesThenSucceeds tests recovery within the attempt budget
func TestConnect_RetriesThenSucceeds(t *testing.T) {
	fb := &flakyBroker{failures: 2}
	m := NewManager(fb, fastConfig())

	require.NoError(t, m.Connect(context.Background()))

	assert.Equal(t, 3, fb.attempts)
	assert.Equal(t, StateConnected, m.State())
}

// TestConnect_ExhaustsAfterMaxAttempts tests the terminal failure path
func TestConnect_ExhaustsAfterMaxAttempts(t *testing.T) {
	fb := &flakyBroker{failures: 100}
	m := NewManager(fb, fastConfig())

	err := m.Connect(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnectionExhausted)
	assert.Contains(t, err.Error(), "3 attempts")
	assert.Equal(t, 3, fb.attempts)
	assert.Equal(t, StateFailed, m.State())
	assert.False(t, m.IsConnected())
}

// TestConnect_ContextCancelledDuringDelay tests cooperative cancellation
func TestConnect_ContextCancelledDuringDelay(t *testing.T) {
	fb := &flakyBroker{failures: 100}
	m := NewManager(fb, Config{MaxAttempts: 3, RetryDelay: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := m.Connect(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fb.attempts)
	assert.Equal(t, StateFailed, m.State())
}

// TestDisconnect_Idempotent tests repeated disconnects are harmless
func TestDisconnect_Idempotent(t *testing.T) {
	fb := &flakyBroker{}
	m := NewManager(fb, fastConfig())
	require.NoError(t, m.Connect(context.Background()))

	require.NoError(t, m.Disconnect())
	require.NoError(t, m.Disconnect())
	require.NoError(t, m.Disconnect())

	assert.Equal(t, 1, fb.disconnects)
	assert.Equal(t, StateDisconnected, m.State())
}

// TestNewManager_DefaultsApplied tests zero-config fallback
func TestNewManager_DefaultsApplied(t *testing.T) {
	m := NewManager(&flakyBroker{}, Config{})

	assert.Equal(t, DefaultConfig().MaxAttempts, m.config.MaxAttempts)
	assert.Equal(t, DefaultConfig().RetryDelay, m.config.RetryDelay)
}

// TestState_String tests the state labels
func TestState_String(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "failed", StateFailed.String())
}
