// Package ratelimit implements fixed-window request counters keyed by caller.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/ulule/limiter/v3"
)

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the time until the current window closes, rounded up to a second.
func (r Result) RetryAfter(now time.Time) time.Duration {
	d := r.ResetAt.Sub(now)
	if d <= 0 {
		return 0
	}
	if rem := d % time.Second; rem != 0 {
		d += time.Second - rem
	}
	return d
}

type Limiter interface {
	// Allow counts one hit for key and reports whether it fits the window.
	Allow(ctx context.Context, key string) (Result, error)
}

// storeLimiter adapts a ulule limiter store to Limiter.
type storeLimiter struct {
	limiter *limiter.Limiter
}

func newStoreLimiter(store limiter.Store, limit int, period time.Duration) Limiter {
	rate := limiter.Rate{Period: period, Limit: int64(limit)}
	return &storeLimiter{limiter: limiter.New(store, rate)}
}

func (l *storeLimiter) Allow(ctx context.Context, key string) (Result, error) {
	lctx, err := l.limiter.Get(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit counter: %w", err)
	}
	return Result{
		Allowed:   !lctx.Reached,
		Limit:     int(lctx.Limit),
		Remaining: int(lctx.Remaining),
		ResetAt:   time.Unix(lctx.Reset, 0),
	}, nil
}
