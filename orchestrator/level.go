package orchestrator

import (
	"fmt"

	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/event"
	"github.com/lixenwraith/color-mixer/level"
)

// RestartLevel lays out the current level again; the first call starts the session
func (o *Orchestrator) RestartLevel() (*engine.Signal, error) {
	return o.changeLevel(event.EventLevelRestart, o.levels.Restart)
}

// NextLevel advances to the next level, allowed once the last mix passed
func (o *Orchestrator) NextLevel() (*engine.Signal, error) {
	return o.changeLevel(event.EventLevelNext, o.levels.Next)
}

func (o *Orchestrator) changeLevel(et event.EventType, pick func() level.Level) (*engine.Signal, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, ErrClosed
	}
	if !o.fireLocked(et) {
		phase := o.phase.State()
		o.mu.Unlock()
		o.log.Debug().Stringer("event", et).Str("phase", phase).Msg("level change ignored")
		return nil, fmt.Errorf("%s in %s: %w", et, phase, ErrSessionBusy)
	}

	// Pending close-lid waits must not act on the new layout
	o.scope.Cancel(engine.ErrSuperseded)
	o.syncCancellations()

	lvl := pick()
	reset := o.levelStarts > 0
	move := o.movement
	done := engine.NewFuture[struct{}]()
	o.wg.Add(1)
	o.mu.Unlock()

	core.Go(func() {
		defer o.wg.Done()
		err := o.startLevel(lvl, reset, move)
		o.fire(event.EventLevelReset)
		done.Resolve(struct{}{}, err)
	})
	return done, nil
}

// startLevel optionally resets the scene, then lays out lvl on the shelf
func (o *Orchestrator) startLevel(lvl level.Level, reset bool, move *engine.Signal) error {
	if reset {
		if move != nil {
			// In-flight ingredients land before the scene is cleared
			_ = engine.Await(o.ctx, move)
		}
		if err := o.resetScene(); err != nil {
			return err
		}
	}

	ingredients := lvl.Ingredients()
	transforms := slotTransforms(len(ingredients), o.opts.PlacementWidth, o.opts.ShelfDepth)
	target := lvl.Target()

	o.mu.Lock()
	o.levelStarts++
	o.level = lvl
	o.target = target
	o.movement = nil
	o.lastResult = nil
	o.slots = make([]*Slot, len(ingredients))
	for i, in := range ingredients {
		s := &Slot{Index: i, Ingredient: in, Transform: transforms[i]}
		h, err := o.poolLocked(in).Acquire(s.Transform)
		if err != nil {
			o.log.Warn().Err(err).Str("kind", in.Name).Msg("shelf slot left empty")
		}
		s.handle = h
		o.slots[i] = s
	}
	o.mu.Unlock()

	o.statLevel.Store(lvl.Name)
	o.view.ShowOrder(lvl, target)
	o.view.ContentChanged(o.vessel.PreviewColor(), o.vessel.Count())
	o.log.Info().Str("level", lvl.Name).Stringer("target", target).Int("ingredients", len(ingredients)).Msg("level started")
	return nil
}

// resetScene clears the shelf, resets view and vessel content concurrently and closes the lid
func (o *Orchestrator) resetScene() error {
	o.mu.Lock()
	slots := o.slots
	o.slots = nil
	o.mu.Unlock()

	for _, s := range slots {
		if s.handle != nil {
			s.handle.Release()
		}
	}

	err := engine.JoinAll(o.ctx, o.view.ResetView, o.vessel.ResetContent)
	if err != nil {
		if o.ctx.Err() != nil {
			return err
		}
		o.log.Warn().Err(err).Msg("scene reset incomplete")
	}
	if err := engine.Await(o.ctx, o.vessel.CloseLid()); err != nil && o.ctx.Err() != nil {
		return err
	}
	return nil
}
