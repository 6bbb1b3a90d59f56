package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Effect is a unit of concurrent work joined by Join or JoinAll
type Effect func(ctx context.Context) error

// JoinAll runs every effect concurrently and waits for all of them
// Effects share ctx unchanged: one effect failing never cancels its siblings
// Returns the first non-nil error
func JoinAll(ctx context.Context, effects ...Effect) error {
	var g errgroup.Group
	for _, fx := range effects {
		if fx == nil {
			continue
		}
		g.Go(func() error { return fx(ctx) })
	}
	return g.Wait()
}

// Join runs every effect concurrently and propagates the first error as
// cancellation of the remaining effects
func Join(ctx context.Context, effects ...Effect) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, fx := range effects {
		if fx == nil {
			continue
		}
		g.Go(func() error { return fx(gctx) })
	}
	return g.Wait()
}

// SignalEffect adapts a wait-handle into a joinable effect
func SignalEffect(s *Signal) Effect {
	return func(ctx context.Context) error {
		return Await(ctx, s)
	}
}
