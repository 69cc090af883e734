package fetch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter serializes requests with a fixed minimum delay between them.
// The fetch loop is intentionally sequential: one token bucket, burst of
// one, so upstream sources see at most one request per interval and test
// runs stay deterministic.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a Limiter enforcing the given minimum delay between
// requests. A non-positive delay disables waiting.
func NewLimiter(minDelay time.Duration) *Limiter {
	if minDelay <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(minDelay), 1)}
}

// Wait blocks until the rate limit allows the next request.
// Returns an error if the context is canceled before the wait completes.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
