package limiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a fixed pause between consecutive requests. It is the
// only rate-limit handling the crawler does.
type Pacer struct {
	limiter *rate.Limiter
	delay   time.Duration
}

// NewPacer creates a pacer that lets one request through every delay.
// A zero delay disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Pacer{
		limiter: rate.NewLimiter(limit, 1),
		delay:   delay,
	}
}

// Wait blocks until the next request may be sent or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Delay returns the configured pause.
func (p *Pacer) Delay() time.Duration {
	return p.delay
}
