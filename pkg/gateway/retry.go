package gateway

import (
	"errors"
	"math/rand"
	"time"
)

// RetryPolicy decides whether a failed attempt is retried and how long to
// wait before the next one. Decisions are pure functions of the error and
// the attempt number, so the policy is testable without real delays.
type RetryPolicy struct {
	// MaxAttempts bounds the total number of attempts, first call included.
	MaxAttempts int
	// BaseDelay is doubled per attempt before jitter is added.
	BaseDelay time.Duration
	// MaxDelay caps the computed delay, jitter included.
	MaxDelay time.Duration
	// Jitter is the upper bound of the random component added to each delay.
	Jitter time.Duration

	// rnd is swapped in tests for deterministic delays.
	rnd func() float64
}

// DefaultRetryPolicy mirrors the upstream API guidance: five attempts,
// exponential backoff from 200ms capped at 10s, with up to 250ms of jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Jitter:      250 * time.Millisecond,
	}
}

// ShouldRetry reports whether the given failure is worth another attempt.
// attempt is zero-based: the first call is attempt 0.
func (p RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if attempt >= p.MaxAttempts-1 {
		return false
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Retryable()
	}
	return false
}

// DelayFor returns the backoff before the given (zero-based) attempt:
// min(base·2^attempt + jitter, cap).
func (p RetryPolicy) DelayFor(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := p.BaseDelay << uint(attempt)
	if p.Jitter > 0 {
		rnd := p.rnd
		if rnd == nil {
			rnd = rand.Float64
		}
		delay += time.Duration(rnd() * float64(p.Jitter))
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}
