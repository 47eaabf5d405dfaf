package parallel

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket holding at most capacity tokens and
// refilling at refillPerSecond.  It starts full.
type RateLimiter struct {
	limiter  *rate.Limiter
	capacity int
}

func NewRateLimiter(capacity int, refillPerSecond float64) (*RateLimiter, error) {
	if capacity <= 0 || !(refillPerSecond > 0) || math.IsInf(refillPerSecond, 0) {
		return nil, ErrInvalidLimit
	}
	return &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(refillPerSecond), capacity),
		capacity: capacity,
	}, nil
}

// Acquire waits for a token or for ctx to end.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// TryAcquire takes a token if one is available now.
func (r *RateLimiter) TryAcquire() bool {
	return r.limiter.Allow()
}

// Available returns the whole tokens currently in the bucket.
func (r *RateLimiter) Available() int {
	return max(0, int(math.Floor(r.limiter.Tokens())))
}

func (r *RateLimiter) Capacity() int { return r.capacity }
