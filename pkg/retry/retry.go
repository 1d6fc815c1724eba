// Package retry runs an operation repeatedly with exponential backoff until
// it succeeds, the attempts run out, or the context ends.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Config holds the backoff strategy for one retried operation.
type Config struct {
	// MaxAttempts bounds the total number of tries, the first one included.
	MaxAttempts int
	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration
	// MaxDelay caps the backoff growth.
	MaxDelay time.Duration
	// Multiplier is applied to the delay after every failed attempt.
	Multiplier float64
	// RetryablePatterns restricts retries to errors whose message contains
	// one of these substrings. Empty means every error is retried.
	RetryablePatterns []string
}

// DefaultConfig returns the baseline strategy: five attempts, 1s initial
// delay doubling up to 30s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// DatabaseRetryableErrors lists the transient failure messages seen while a
// database is still starting or the network flaps.
func DatabaseRetryableErrors() []string {
	return []string{
		"connection refused",
		"connection reset",
		"connection timed out",
		"i/o timeout",
		"dial tcp",
		"network is unreachable",
		"no connection could be made",
		"server closed the connection",
		"too many connections",
		"database system is starting up",
	}
}

// DatabaseConfig returns the default strategy restricted to transient
// database errors.
func DatabaseConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryablePatterns = DatabaseRetryableErrors()
	return cfg
}

// Do runs fn until it succeeds or the strategy gives up.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult runs fn until it succeeds or the strategy gives up, returning
// the last result. Non-retryable errors and context cancellation stop the
// loop immediately.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts <= 0 {
		return zero, fmt.Errorf("MaxAttempts must be greater than 0")
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryableError(err, cfg) {
			return zero, err
		}
		lastErr = err

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(withJitter(backoffDelay(attempt, cfg))):
		}
	}

	return zero, lastErr
}

// IsRetryableError reports whether err matches the configured retryable
// patterns. A nil error is never retryable.
func IsRetryableError(err error, cfg Config) bool {
	if err == nil {
		return false
	}
	if len(cfg.RetryablePatterns) == 0 {
		return true
	}

	message := strings.ToLower(err.Error())
	for _, pattern := range cfg.RetryablePatterns {
		if strings.Contains(message, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// backoffDelay computes initialDelay * multiplier^attempt, capped at
// MaxDelay.
func backoffDelay(attempt int, cfg Config) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	return time.Duration(delay)
}

// withJitter spreads the delay by ±10% so competing clients do not reconnect
// in lockstep.
func withJitter(delay time.Duration) time.Duration {
	//nolint:gosec // jitter needs no cryptographic randomness
	jitter := float64(delay) * 0.1 * (rand.Float64()*2 - 1)
	return delay + time.Duration(jitter)
}
