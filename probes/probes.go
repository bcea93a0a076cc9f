package probes

import (
	"context"
	"time"
)

// withTimeout bounds ctx by d when d is positive. A zero d leaves the
// caller's deadline in charge.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return ctx, func() {}
}

// elapsedMS returns the time since start in milliseconds.
func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
