package engine

import (
	"context"
	"time"
)

// Sleep is a fixed-duration timed completion against tp
// Returns the cancellation cause if ctx ends first
func Sleep(ctx context.Context, tp TimeProvider, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return context.Cause(ctx)
	}
	if d <= 0 {
		return nil
	}
	select {
	case <-tp.After(d):
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// Spread returns n equal slices of total, used to fan steps over a fixed duration
func Spread(total time.Duration, n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return total / time.Duration(n)
}
