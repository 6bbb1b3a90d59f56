package orchestrator

import (
	"context"
	"fmt"

	"github.com/lixenwraith/color-mixer/audio"
	"github.com/lixenwraith/color-mixer/blend"
	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/event"
	"github.com/lixenwraith/color-mixer/vessel"
)

// TriggerMix requests the mix of everything in the vessel
// Requires a placement to have started this level; a second trigger while a
// mix is requested or running is refused with ErrSessionBusy
func (o *Orchestrator) TriggerMix() (*engine.Future[blend.MixResult], error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, ErrClosed
	}
	if !o.fireLocked(event.EventMixTrigger) {
		emptyMix := o.movement == nil && o.phase.Is("Ready")
		phase := o.phase.State()
		o.mu.Unlock()

		if emptyMix {
			o.cues.Play(audio.CueError)
			return nil, fmt.Errorf("trigger mix: %w", vessel.ErrEmptyMixForbidden)
		}
		o.log.Debug().Str("phase", phase).Msg("mix trigger ignored")
		return nil, fmt.Errorf("trigger mix in %s: %w", phase, ErrSessionBusy)
	}

	// Cut the pending close-lid wait short so the lid closes now
	o.scope.Cancel(engine.ErrMixRequested)
	o.syncCancellations()

	move := o.movement
	target := o.target
	result := engine.NewFuture[blend.MixResult]()
	o.wg.Add(1)
	o.mu.Unlock()

	core.Go(func() {
		defer o.wg.Done()
		res, err := o.runMix(move, target)
		result.Resolve(res, err)
	})
	return result, nil
}

// runMix chains strictly after the last movement, closes the lid, mixes,
// reports the result and reopens the lid
func (o *Orchestrator) runMix(move *engine.Signal, target core.Color) (blend.MixResult, error) {
	if err := engine.Await(o.ctx, move); err != nil {
		o.fire(event.EventMixAborted)
		return blend.MixResult{}, err
	}

	if err := engine.Await(o.ctx, o.vessel.CloseLid()); err != nil && o.ctx.Err() != nil {
		o.fire(event.EventMixAborted)
		return blend.MixResult{}, err
	}

	o.fire(event.EventMixStart)
	m, err := o.vessel.BeginMix(o.ctx, o.vessel.Colors(), target)
	if err != nil {
		o.log.Warn().Err(err).Msg("mix refused")
		o.cues.Play(audio.CueError)
		o.view.Notice("the blender is empty")
		o.fire(event.EventMixAborted)
		return blend.MixResult{}, err
	}

	res, err := m.Wait(o.ctx)
	if err != nil {
		o.fire(event.EventMixAborted)
		return blend.MixResult{}, err
	}

	passed := res.Passed(o.opts.WinThreshold)
	o.mu.Lock()
	o.lastResult = &res
	o.movement = nil
	o.mu.Unlock()
	o.statMixCount.Add(1)
	o.statLastSimilarity.Set(res.Similarity)
	o.view.ContentChanged(o.vessel.PreviewColor(), o.vessel.Count())

	if passed {
		o.cues.Play(audio.CueSuccess)
	} else {
		o.cues.Play(audio.CueFailure)
	}
	o.log.Info().Float64("similarity", res.Similarity).Int("percent", res.Percent()).Bool("passed", passed).Msg("mix reported")

	o.cues.Play(audio.CueLidOpen)
	err = engine.JoinAll(o.ctx,
		func(ctx context.Context) error { return o.view.ShowResults(ctx, res, passed) },
		engine.SignalEffect(o.vessel.OpenLid()),
	)
	if err != nil && !engine.IsInterruption(err) {
		o.log.Warn().Err(err).Msg("results presentation failed")
	}

	o.fire(event.EventMixComplete)
	return res, nil
}
