package safety

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllow_ConsumesTokens tests that the bucket starts full and drains
func TestAllow_ConsumesTokens(t *testing.T) {
	rl := NewRateLimiter("test", 2, 1)

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())
}

// TestAllow_Refills tests token recovery over time
func TestAllow_Refills(t *testing.T) {
	rl := NewRateLimiter("test", 1, 5)
	require.True(t, rl.Allow())
	require.False(t, rl.Allow())

	// Backdate the refill clock instead of sleeping.
	rl.mutex.Lock()
	rl.lastRefill = time.Now().Add(-2 * time.Second)
	rl.mutex.Unlock()

	assert.True(t, rl.Allow())
}

// TestAllow_RefillCapsAtCapacity tests that the bucket never overfills
func TestAllow_RefillCapsAtCapacity(t *testing.T) {
	rl := NewRateLimiter("test", 2, 100)

	rl.mutex.Lock()
	rl.tokens = 0
	rl.lastRefill = time.Now().Add(-10 * time.Second)
	rl.mutex.Unlock()

	stats := rl.GetStats()
	assert.Equal(t, 2, stats.Tokens)
}

// TestWait_ReturnsImmediatelyWithTokens tests the fast path
func TestWait_ReturnsImmediatelyWithTokens(t *testing.T) {
	rl := NewRateLimiter("test", 1, 1)

	start := time.Now()
	require.NoError(t, rl.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

// TestWait_HonorsCancellation tests that a blocked Wait exits on ctx cancel
func TestWait_HonorsCancellation(t *testing.T) {
	rl := NewRateLimiter("test", 1, 1)
	require.True(t, rl.Allow()) // drain the bucket

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestGetStats tests the budget snapshot
func TestGetStats(t *testing.T) {
	rl := NewRateLimiter("alpaca", 3, 3)
	rl.Allow()

	stats := rl.GetStats()
	assert.Equal(t, "alpaca", stats.Name)
	assert.Equal(t, 2, stats.Tokens)
	assert.Equal(t, 3, stats.Capacity)
	assert.Equal(t, 3, stats.RefillRate)
}
