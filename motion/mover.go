// Package motion moves ingredients from the shelf into the vessel.
package motion

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/parameter"
	"github.com/lixenwraith/color-mixer/pool"
)

// TimedMover flies a handle along a parabolic arc in fixed time
// Position is written to the handle every frame so views can sample it
type TimedMover struct {
	tp       engine.TimeProvider
	duration time.Duration
	frame    time.Duration
	arc      float64
	log      zerolog.Logger
}

// Options configures a TimedMover, zero values take the parameter defaults
type Options struct {
	TimeProvider engine.TimeProvider
	Duration     time.Duration
	Frame        time.Duration
	// Arc is the peak height above the straight line between endpoints
	Arc    float64
	Logger zerolog.Logger
}

// NewTimedMover creates a mover
func NewTimedMover(opts Options) *TimedMover {
	if opts.TimeProvider == nil {
		opts.TimeProvider = engine.NewMonotonicTimeProvider()
	}
	if opts.Duration <= 0 {
		opts.Duration = parameter.MoveDuration
	}
	if opts.Frame <= 0 {
		opts.Frame = parameter.FrameInterval
	}
	return &TimedMover{
		tp:       opts.TimeProvider,
		duration: opts.Duration,
		frame:    opts.Frame,
		arc:      opts.Arc,
		log:      opts.Logger.With().Str("component", "motion").Logger(),
	}
}

// MoveTo flies h to dest and returns once it arrives
// The handle is unfrozen for the flight and left at rest at dest
func (m *TimedMover) MoveTo(ctx context.Context, h *pool.Handle, dest core.Vec3) error {
	from := h.Transform().Position
	h.SetPhysics(pool.Physics{Velocity: dest.Sub(from).Scale(1 / m.duration.Seconds())})

	tw := engine.StartTween(m.tp, 0, 1, m.duration, nil)
	for {
		select {
		case <-tw.Signal().Done():
			h.SetPosition(dest)
			h.SetPhysics(pool.Physics{})
			m.log.Debug().Str("kind", h.Kind()).Stringer("handle", h.ID()).Msg("move complete")
			return nil
		case <-ctx.Done():
			tw.Kill()
			h.SetPhysics(pool.Physics{})
			return context.Cause(ctx)
		case <-m.tp.After(m.frame):
			h.SetPosition(m.pointAt(from, dest, tw.Value()))
		}
	}
}

// pointAt returns the arc position at progress t
func (m *TimedMover) pointAt(from, dest core.Vec3, t float64) core.Vec3 {
	p := from.Lerp(dest, t)
	p.Y += m.arc * 4 * t * (1 - t)
	return p
}
