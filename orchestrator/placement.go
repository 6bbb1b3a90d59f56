package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lixenwraith/color-mixer/audio"
	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/event"
	"github.com/lixenwraith/color-mixer/pool"
)

// Place starts the placement sequence for the shelf ingredient id
// The returned signal settles once the ingredient is inside the vessel
func (o *Orchestrator) Place(id uuid.UUID) (*engine.Signal, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, ErrClosed
	}

	slot, h := o.slotForLocked(id)
	if h == nil {
		o.mu.Unlock()
		return nil, fmt.Errorf("place %s: %w", id, ErrUnknownHandle)
	}
	if !h.TryClaim() {
		o.mu.Unlock()
		return nil, fmt.Errorf("place %s: %w", id, ErrNotInteractable)
	}
	if !o.fireLocked(event.EventPlacementStart) {
		h.SetInteractable(true)
		phase := o.phase.State()
		o.mu.Unlock()
		o.log.Debug().Str("phase", phase).Msg("placement ignored")
		return nil, fmt.Errorf("place %s in %s: %w", id, phase, ErrSessionBusy)
	}

	// Supersedes the previous placement's close-lid wait
	ctx, gen := o.scope.Renew(engine.ErrSuperseded)
	o.syncCancellations()

	slot.handle = nil
	move := engine.NewFuture[struct{}]()
	o.movement = move
	o.statPlacements.Add(1)
	p := h.Pool()
	o.wg.Add(1)
	o.mu.Unlock()

	o.log.Info().Str("kind", h.Kind()).Stringer("handle", h.ID()).Uint64("generation", gen).Msg("placement started")

	// Replenishment is detached from the placement scope and always runs
	repl := p.ScheduleReplenish(slot.Transform, slot.Ingredient.RenewDelay)
	core.Go(func() { o.awaitReplenish(slot, repl) })

	core.Go(func() {
		defer o.wg.Done()
		o.runPlacement(ctx, gen, h, move)
	})
	return move, nil
}

// runPlacement opens the lid, flies h in, registers it, then waits before
// closing the lid unless a newer placement takes over
func (o *Orchestrator) runPlacement(ctx context.Context, gen uint64, h *pool.Handle, move *engine.Signal) {
	defer o.scope.Dispose(gen)

	o.vessel.OpenLid()

	// The committed move ignores the placement scope
	if err := o.mover.MoveTo(o.ctx, h, o.opts.DropPoint); err != nil {
		move.Resolve(struct{}{}, err)
		return
	}

	if _, err := o.vessel.Enter(h); err != nil {
		o.log.Warn().Err(err).Stringer("handle", h.ID()).Msg("ingredient rejected by vessel")
	}
	o.view.ContentChanged(o.vessel.PreviewColor(), o.vessel.Count())
	move.Resolve(struct{}{}, nil)
	o.fireIfCurrent(event.EventMoveComplete, gen)

	var waitErr error
	err := engine.JoinAll(o.ctx,
		func(context.Context) error {
			waitErr = engine.Sleep(ctx, o.tp, o.opts.WaitBeforeCloseLid)
			return nil
		},
		o.vessel.ResetTransform,
	)
	o.scope.Dispose(gen)
	if err != nil && !engine.IsInterruption(err) {
		o.log.Warn().Err(err).Msg("placement housekeeping failed")
	}

	switch {
	case o.ctx.Err() != nil:
		return
	case errors.Is(waitErr, engine.ErrSuperseded):
		// A newer placement owns the lid
		return
	case errors.Is(waitErr, engine.ErrMixRequested):
		o.log.Debug().Uint64("generation", gen).Msg("close-lid wait cut short by mix")
	}

	o.cues.Play(audio.CueLidClose)
	if err := engine.Await(o.ctx, o.vessel.CloseLid()); err != nil && !engine.IsInterruption(err) {
		o.log.Warn().Err(err).Msg("lid close failed")
	}
	o.fireIfCurrent(event.EventSettleComplete, gen)
}

// awaitReplenish puts the replacement on the shelf once the pool delivers it
func (o *Orchestrator) awaitReplenish(s *Slot, f *engine.Future[*pool.Handle]) {
	h, err := f.Wait(context.Background())
	if err != nil {
		if errors.Is(err, pool.ErrPoolExhausted) {
			o.log.Warn().Err(err).Str("kind", s.Ingredient.Name).Msg("shelf slot left empty")
			o.cues.Play(audio.CueError)
			o.view.Notice(fmt.Sprintf("no %s left", s.Ingredient.Name))
		}
		return
	}
	o.fillSlot(s, h)
}

// IngredientExited removes an ingredient that left the vessel and returns it to its pool
func (o *Orchestrator) IngredientExited(id uuid.UUID) error {
	for _, h := range o.vessel.Contents() {
		if h.ID() != id {
			continue
		}
		if o.vessel.Exit(h) {
			h.Release()
			o.view.ContentChanged(o.vessel.PreviewColor(), o.vessel.Count())
		}
		return nil
	}
	return fmt.Errorf("exit %s: %w", id, ErrUnknownHandle)
}
