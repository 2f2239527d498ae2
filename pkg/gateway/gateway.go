// Package gateway serializes outbound marketplace API calls under a global
// rate budget: a fixed-window token bucket plus a bounded worker pool drain
// a FIFO queue of pending requests, retrying transient failures with
// exponential backoff.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config tunes a Gateway. Zero fields fall back to defaults.
type Config struct {
	// Capacity is the number of requests allowed per refill interval.
	Capacity int
	// Interval is the bucket refill period.
	Interval time.Duration
	// Workers bounds in-flight requests.
	Workers int
	// QueueSize bounds the pending request queue.
	QueueSize int
	// Retry decides on retries and backoff.
	Retry RetryPolicy
	// Clock is swapped in tests; defaults to the system clock.
	Clock Clock
}

const (
	defaultCapacity  = 5
	defaultInterval  = time.Second
	defaultWorkers   = 2
	defaultQueueSize = 64
)

// Gateway is an owned instance: construct one per upstream budget and inject
// it into the fetchers that share it. It is never a package-level singleton,
// so separate accounts can run isolated limiters or share one by explicit
// construction.
type Gateway struct {
	client *http.Client
	bucket *bucket
	policy RetryPolicy
	clock  Clock

	queue chan *job

	closeOnce sync.Once
	wg        sync.WaitGroup
}

type job struct {
	ctx  context.Context
	req  *http.Request
	done chan result
}

type result struct {
	resp *http.Response
	err  error
}

// New starts the worker pool and returns a ready Gateway. Callers own the
// instance and must Close it when done.
func New(client *http.Client, cfg Config) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = defaultCapacity
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryPolicy()
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}

	g := &Gateway{
		client: client,
		bucket: newBucket(cfg.Clock, cfg.Capacity, cfg.Interval),
		policy: cfg.Retry,
		clock:  cfg.Clock,
		queue:  make(chan *job, cfg.QueueSize),
	}

	g.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go g.worker()
	}
	return g
}

// Close stops accepting requests and waits for in-flight ones to finish.
func (g *Gateway) Close() {
	g.closeOnce.Do(func() {
		close(g.queue)
	})
	g.wg.Wait()
}

// Execute queues the request and blocks until a worker has dispatched it and
// a final response or error is available. Transient failures are retried
// internally; the returned error is always a *Error or a context error.
func (g *Gateway) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	j := &job{ctx: ctx, req: req, done: make(chan result, 1)}

	select {
	case g.queue <- j:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-j.done:
		return res.resp, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *Gateway) worker() {
	defer g.wg.Done()
	for j := range g.queue {
		resp, err := g.dispatch(j.ctx, j.req)
		j.done <- result{resp: resp, err: err}
	}
}

// dispatch runs the attempt loop for one request. Every attempt consumes a
// token; retries restart the whole request, never a partial page.
func (g *Gateway) dispatch(ctx context.Context, req *http.Request) (*http.Response, error) {
	logger := zerolog.Ctx(ctx)

	var lastErr error
	for attempt := 0; attempt < g.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := g.policy.DelayFor(attempt)
			logger.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Str("url", req.URL.String()).
				Msg("retrying request")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-g.clock.After(delay):
			}
		}

		if err := g.bucket.take(ctx); err != nil {
			return nil, err
		}

		resp, err := g.attempt(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !g.policy.ShouldRetry(err, attempt) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("retries exhausted: %w", lastErr)
}

func (g *Gateway) attempt(ctx context.Context, req *http.Request) (*http.Response, error) {
	attemptReq, err := cloneRequest(ctx, req)
	if err != nil {
		return nil, &Error{Kind: KindClientError, Err: err}
	}

	resp, err := g.client.Do(attemptReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classifyTransport(err)
	}

	if gwErr := classifyStatus(resp.StatusCode); gwErr != nil {
		// Drain so the transport can reuse the connection on retry.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, gwErr
	}
	return resp, nil
}

// cloneRequest makes the request safe to re-issue: the body, when present,
// must be rewindable via GetBody.
func cloneRequest(ctx context.Context, req *http.Request) (*http.Request, error) {
	clone := req.Clone(ctx)
	if req.Body == nil || req.GetBody == nil {
		return clone, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("rewind request body: %w", err)
	}
	clone.Body = body
	return clone, nil
}
