package gateway

import (
	"context"
	"sync"
	"time"
)

// bucket is a fixed-window token bucket: the token count is reset to
// capacity once per interval, never topped up beyond it. One token is
// consumed per dispatch; callers without a token wait for the next window.
type bucket struct {
	clock    Clock
	capacity int
	interval time.Duration

	mu        sync.Mutex
	tokens    int
	windowEnd time.Time
}

func newBucket(clock Clock, capacity int, interval time.Duration) *bucket {
	return &bucket{
		clock:     clock,
		capacity:  capacity,
		interval:  interval,
		tokens:    capacity,
		windowEnd: clock.Now().Add(interval),
	}
}

// take consumes one token, waiting for the next refill window when the
// current one is exhausted. It returns early if ctx is done.
func (b *bucket) take(ctx context.Context) error {
	for {
		b.mu.Lock()
		now := b.clock.Now()
		if !now.Before(b.windowEnd) {
			b.tokens = b.capacity
			b.windowEnd = now.Add(b.interval)
		}
		if b.tokens > 0 {
			b.tokens--
			b.mu.Unlock()
			return nil
		}
		wait := b.windowEnd.Sub(now)
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.clock.After(wait):
		}
	}
}
