// Package guardrails holds cross cutting safety helpers for the pipeline
package guardrails

import (
	"context"
	"time"
)

// Timeouts is an optional budget bundle for one vintage.
// Zero values mean no extra timeout at that level
type Timeouts struct {
	// Vintage is the overall budget for one vintage, read to sink
	Vintage time.Duration

	// Ledger caps each best-effort ledger write
	Ledger time.Duration
}

// WithVintage returns a context limited by the vintage budget without extending any parent deadline
func WithVintage(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Vintage)
}

// ForLedger returns a sub context for one ledger write bounded by Ledger and any remaining parent budget
func ForLedger(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Ledger)
}

// Remaining returns the time until the deadline on ctx or zero when none is set or already expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return 0
}

// withChildTimeout takes the tighter of d and the parent remainder; zero d only adds cancelation
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
