package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum spacing between request starts across all
// workers. It is a global cadence, not a per-host one. The last-grant
// bookkeeping lives inside the wrapped rate.Limiter and is never exposed.
type Limiter struct {
	rl *rate.Limiter
}

// New returns a limiter granting at most one acquisition per delay. A
// non-positive delay disables the gate.
func New(delay time.Duration) *Limiter {
	if delay <= 0 {
		return &Limiter{rl: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{rl: rate.NewLimiter(rate.Every(delay), 1)}
}

// Acquire blocks until at least the configured delay has elapsed since the
// previous grant, then records the new grant. Safe for concurrent use; no
// ordering is guaranteed among waiters beyond what the clock imposes.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.rl.Wait(ctx)
}
