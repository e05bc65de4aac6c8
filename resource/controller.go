// Package resource provides admission control for queries and uploads.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentQueries bounds the number of queries scanning at once.
	// If 0, no limit is enforced (only tracking).
	MaxConcurrentQueries int64

	// QueriesPerSecond is the sustained query rate.
	// If 0, unlimited.
	QueriesPerSecond float64

	// QueryBurst is the number of queries allowed above the sustained rate.
	// If 0, defaults to 1 when QueriesPerSecond is set.
	QueryBurst int

	// UploadStringsPerSecond is the sustained rate of uploaded strings.
	// If 0, unlimited. Batches larger than the burst are admitted in chunks.
	UploadStringsPerSecond float64

	// UploadBurst is the number of strings allowed above the sustained rate.
	// If 0, defaults to max(1, UploadStringsPerSecond).
	UploadBurst int
}

// Controller manages query concurrency and rate limits.
// A nil *Controller admits everything.
type Controller struct {
	cfg Config

	// Concurrency
	querySem *semaphore.Weighted // nil if unlimited
	inFlight atomic.Int64

	// Rates
	queryLimiter  *rate.Limiter
	uploadLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxConcurrentQueries > 0 {
		c.querySem = semaphore.NewWeighted(cfg.MaxConcurrentQueries)
	}

	if cfg.QueriesPerSecond > 0 {
		burst := cfg.QueryBurst
		if burst <= 0 {
			burst = 1
		}
		c.queryLimiter = rate.NewLimiter(rate.Limit(cfg.QueriesPerSecond), burst)
	}

	if cfg.UploadStringsPerSecond > 0 {
		burst := cfg.UploadBurst
		if burst <= 0 {
			burst = max(1, int(cfg.UploadStringsPerSecond))
		}
		c.uploadLimiter = rate.NewLimiter(rate.Limit(cfg.UploadStringsPerSecond), burst)
	}

	return c
}

// Config returns the limits the controller was created with.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireQuery waits for the query rate limit and a concurrency slot.
// It blocks until both are available or ctx is done.
// Every successful call must be paired with ReleaseQuery.
func (c *Controller) AcquireQuery(ctx context.Context) error {
	if c == nil {
		return nil
	}

	if c.queryLimiter != nil {
		if err := c.queryLimiter.Wait(ctx); err != nil {
			return err
		}
	}

	if c.querySem != nil {
		if err := c.querySem.Acquire(ctx, 1); err != nil {
			return err
		}
	}

	c.inFlight.Add(1)
	return nil
}

// TryAcquireQuery attempts to admit a query without blocking.
func (c *Controller) TryAcquireQuery() bool {
	if c == nil {
		return true
	}

	if c.queryLimiter != nil && !c.queryLimiter.Allow() {
		return false
	}

	if c.querySem != nil && !c.querySem.TryAcquire(1) {
		return false
	}

	c.inFlight.Add(1)
	return true
}

// ReleaseQuery releases a concurrency slot.
func (c *Controller) ReleaseQuery() {
	if c == nil {
		return
	}

	if c.querySem != nil {
		c.querySem.Release(1)
	}
	c.inFlight.Add(-1)
}

// QueriesInFlight returns the number of admitted, unreleased queries.
func (c *Controller) QueriesInFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// AcquireUpload waits until the upload rate allows n strings.
func (c *Controller) AcquireUpload(ctx context.Context, n int) error {
	if c == nil || c.uploadLimiter == nil || n <= 0 {
		return nil
	}

	burst := c.uploadLimiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := c.uploadLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
