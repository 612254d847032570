package safety

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements token bucket rate limiting for outbound API calls.
type RateLimiter struct {
	capacity   int       // Maximum number of tokens
	tokens     int       // Current number of tokens
	refillRate int       // Tokens added per second
	lastRefill time.Time // Last time tokens were added
	mutex      sync.Mutex
	name       string
}

// NewRateLimiter creates a rate limiter starting at full capacity.
func NewRateLimiter(name string, capacity, refillRate int) *RateLimiter {
	return &RateLimiter{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
		name:       name,
	}
}

// Allow checks if one operation is allowed under the rate limit.
func (rl *RateLimiter) Allow() bool {
	return rl.allowN(1)
}

// Wait blocks until one operation is allowed or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		if rl.allowN(1) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rl.waitTime(1)):
		}
	}
}

func (rl *RateLimiter) allowN(n int) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refillTokens()

	if rl.tokens >= n {
		rl.tokens -= n
		return true
	}
	return false
}

// refillTokens adds tokens based on elapsed whole seconds.
func (rl *RateLimiter) refillTokens() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)

	if elapsed < time.Second {
		return
	}

	tokensToAdd := int(elapsed.Seconds()) * rl.refillRate
	if tokensToAdd > 0 {
		rl.tokens += tokensToAdd
		if rl.tokens > rl.capacity {
			rl.tokens = rl.capacity
		}
		rl.lastRefill = now
	}
}

func (rl *RateLimiter) waitTime(n int) time.Duration {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refillTokens()

	if rl.tokens >= n {
		return 0
	}

	tokensNeeded := n - rl.tokens
	secondsToWait := float64(tokensNeeded) / float64(rl.refillRate)

	// Small buffer to account for timing precision.
	return time.Duration(secondsToWait*1000+100) * time.Millisecond
}

// Stats is a snapshot of the limiter's current budget.
type Stats struct {
	Name       string
	Tokens     int
	Capacity   int
	RefillRate int
}

// GetStats returns the current token budget.
func (rl *RateLimiter) GetStats() Stats {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refillTokens()

	return Stats{
		Name:       rl.name,
		Tokens:     rl.tokens,
		Capacity:   rl.capacity,
		RefillRate: rl.refillRate,
	}
}
