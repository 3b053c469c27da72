package collector

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter paces workbook opens so a scan over a large file share does
// not hammer the filesystem (or, with the live strategy, the automation
// server) with a burst of opens.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a new rate limiter.
// ops: workbook opens per second; <= 0 disables limiting.
func NewRateLimiter(ops int) *RateLimiter {
	if ops <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(ops), ops*2),
	}
}

// Wait blocks until the rate limiter allows an action.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow checks if an action is allowed without blocking.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}
