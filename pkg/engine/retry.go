package engine

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// retryConfig governs the ephemeral, in-memory retries the LLM step takes
// on a transient adapter failure (spec §4.6.3: "no event is written between
// retries" — only the final exhausted attempt is ever recorded).
type retryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Factor       float64
}

// defaultRetryConfig implements the spec's default: max_retries=2, i.e. up
// to 3 attempts total.
func defaultRetryConfig() retryConfig {
	return retryConfig{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Factor:       2.0,
	}
}

// withRetries runs op, retrying on transient failures (as classified by
// isTransient) with exponential backoff and jitter. It returns the last
// error and the number of retries actually taken (0 on first-try success),
// which becomes LLMCallFailed.retry_count on exhaustion.
func withRetries(ctx context.Context, cfg retryConfig, isTransient func(error) bool, op func(attempt int) error) (retries int, err error) {
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return attempt - 1, err
		}

		err = op(attempt)
		if err == nil {
			return attempt - 1, nil
		}
		if !isTransient(err) {
			return attempt - 1, err
		}
		if attempt >= cfg.MaxAttempts {
			break
		}

		jittered := time.Duration(float64(delay) * (0.5 + rand.Float64())) // #nosec G404 -- jitter only, not security sensitive
		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-time.After(jittered):
		}

		delay = time.Duration(math.Min(float64(delay)*cfg.Factor, float64(cfg.MaxDelay)))
	}

	return cfg.MaxAttempts - 1, err
}
