package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Allow reports whether a request may proceed now, consuming a token if so
	Allow() bool
	// Wait blocks until the rate limit allows another request or ctx is done
	Wait(ctx context.Context) error
	// Reset restores the limiter to its initial, full state
	Reset()
}

// Pacer spaces requests at least interval apart, with no burst beyond one request
type Pacer struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewPacer creates a Pacer enforcing interval between consecutive requests.
// An interval of zero or less never blocks.
func NewPacer(interval time.Duration) *Pacer {
	p := &Pacer{interval: interval}
	p.Reset()
	return p
}

// NewPerSecond creates a Pacer allowing perSecond requests per second
func NewPerSecond(perSecond float64) *Pacer {
	if perSecond <= 0 {
		return NewPacer(0)
	}
	return NewPacer(time.Duration(float64(time.Second) / perSecond))
}

// Allow checks if a request can proceed
func (p *Pacer) Allow() bool {
	return p.limiter.Allow()
}

// Wait blocks until the next request slot
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Reset gives the pacer a fresh token so the next request is immediate
func (p *Pacer) Reset() {
	limit := rate.Inf
	if p.interval > 0 {
		limit = rate.Every(p.interval)
	}
	p.limiter = rate.NewLimiter(limit, 1)
}

// Interval returns the configured spacing between requests
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Unlimited is a Limiter that never blocks
type Unlimited struct{}

func (Unlimited) Allow() bool                    { return true }
func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }
func (Unlimited) Reset()                         {}
