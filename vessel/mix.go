package vessel

import (
	"context"
	"fmt"

	"github.com/lixenwraith/color-mixer/blend"
	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/pool"
)

// Mix is one running mix sequence
type Mix struct {
	steps  []core.Color
	result *engine.Future[blend.MixResult]
}

// Steps returns the running-mix color path the recolor effect walks
func (m *Mix) Steps() []core.Color { return m.steps }

// Wait blocks until agitate, recolor and disperse have all finished
func (m *Mix) Wait(ctx context.Context) (blend.MixResult, error) {
	return m.result.Wait(ctx)
}

// Done is closed once the mix settles
func (m *Mix) Done() <-chan struct{} { return m.result.Done() }

// BeginMix mixes colors, in arrival order, and scores the result against target
// Agitation, stepwise recoloring and dispersal of the contained ingredients run
// concurrently over the mix duration; the mix settles when all three finish
func (v *Vessel) BeginMix(ctx context.Context, colors []core.Color, target core.Color) (*Mix, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("begin mix: %w", ErrEmptyMixForbidden)
	}
	if !v.mixing.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("begin mix: %w", ErrMixInProgress)
	}

	steps := blend.RunningMix(colors)
	final := steps[len(steps)-1]
	handles := v.content.Handles()
	m := &Mix{steps: steps, result: engine.NewFuture[blend.MixResult]()}

	v.mu.Lock()
	v.stopColorLocked()
	v.stopFillLocked()
	v.setStateLocked(ContentFilling)
	v.startFillLocked(1, v.opts.MixDuration)
	v.mu.Unlock()

	v.log.Info().Int("ingredients", len(colors)).Stringer("target", target).Msg("mix started")

	core.Go(func() {
		err := engine.JoinAll(ctx,
			v.agitate,
			v.recolor(steps),
			v.disperse(handles),
		)

		v.mu.Lock()
		v.agitating = false
		v.physics = pool.Physics{}
		if err == nil {
			v.stopColorLocked()
			v.color = colorTrack{from: final, to: final}
			v.setStateLocked(ContentMixed)
		} else {
			v.stopFillLocked()
		}
		v.mu.Unlock()
		v.mixing.Store(false)

		if err != nil {
			v.refreshPreview()
			v.log.Debug().Err(err).Msg("mix interrupted")
			m.result.Resolve(blend.MixResult{}, err)
			return
		}
		res := blend.Score(final, target)
		v.log.Info().Float64("similarity", res.Similarity).Stringer("final", final).Msg("mix complete")
		m.result.Resolve(res, nil)
	})

	return m, nil
}

// agitate shakes the vessel for the whole mix duration
func (v *Vessel) agitate(ctx context.Context) error {
	v.mu.Lock()
	v.agitating = true
	v.physics = pool.Physics{AngularVelocity: core.Vec3{Y: 1}}
	v.mu.Unlock()

	return engine.Sleep(ctx, v.tp, v.opts.MixDuration)
}

// recolor walks the running-mix path, one equal slice of the mix duration per step
func (v *Vessel) recolor(steps []core.Color) engine.Effect {
	return func(ctx context.Context) error {
		interval := engine.Spread(v.opts.MixDuration, len(steps))
		for _, to := range steps {
			v.mu.Lock()
			v.stopColorLocked()
			from := v.color.value()
			tw := v.startColorLocked(from, to, interval)
			v.mu.Unlock()

			if err := awaitTween(ctx, tw); err != nil {
				return err
			}
		}
		return nil
	}
}

// disperse returns each contained ingredient to its pool, half a step in and
// then one step apart, so the vessel empties while the color settles
func (v *Vessel) disperse(handles []*pool.Handle) engine.Effect {
	return func(ctx context.Context) error {
		interval := engine.Spread(v.opts.MixDuration, len(handles))
		for i, h := range handles {
			wait := interval
			if i == 0 {
				wait = interval / 2
			}
			if err := engine.Sleep(ctx, v.tp, wait); err != nil {
				return err
			}
			// Ingredients that left mid-mix were released by whoever removed them
			if v.content.Remove(h) {
				h.Release()
			}
		}
		v.statCount.Store(int64(v.content.Len()))
		return nil
	}
}
