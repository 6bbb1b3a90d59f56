package vessel

import (
	"context"

	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/pool"
)

// ResetContent drains the liquid and returns every remaining ingredient to its pool
func (v *Vessel) ResetContent(ctx context.Context) error {
	released := 0
	for _, h := range v.content.Drain() {
		if h.Release() {
			released++
		}
	}

	v.mu.Lock()
	v.stopFillLocked()
	tw := v.startFillLocked(0, v.opts.ResetContentDuration)
	v.mu.Unlock()

	err := awaitTween(ctx, tw)

	v.mu.Lock()
	v.stopColorLocked()
	v.color = colorTrack{from: core.Clear, to: core.Clear}
	v.setStateLocked(ContentEmpty)
	v.mu.Unlock()
	v.statCount.Store(0)

	v.log.Debug().Int("released", released).Msg("content reset")
	return err
}

// ResetTransform eases the vessel back to its home pose and zeroes its physics
func (v *Vessel) ResetTransform(ctx context.Context) error {
	v.mu.Lock()
	v.physics = pool.Physics{}
	v.stopPoseLocked()
	if v.pose.current() == v.opts.Home {
		v.mu.Unlock()
		return nil
	}
	tw := v.startPoseLocked(v.opts.Home, v.opts.ResetTransformDuration)
	v.mu.Unlock()

	return awaitTween(ctx, tw)
}
