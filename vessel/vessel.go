// Package vessel models the shared mixing container: its lid, the ingredients
// inside it, and the timed mix and reset sequences.
package vessel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/color-mixer/blend"
	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/parameter"
	"github.com/lixenwraith/color-mixer/pool"
	"github.com/lixenwraith/color-mixer/status"
)

var (
	ErrEmptyMixForbidden = errors.New("mixing an empty vessel is forbidden")
	ErrMixInProgress     = errors.New("mix already in progress")
	ErrNotCheckedOut     = errors.New("ingredient is not checked out")
)

// ContentState describes what the vessel holds
type ContentState int

const (
	ContentEmpty ContentState = iota
	ContentFilling
	ContentMixed
)

var contentStateNames = [...]string{"empty", "filling", "mixed"}

func (s ContentState) String() string {
	if int(s) < len(contentStateNames) {
		return contentStateNames[s]
	}
	return "unknown"
}

// Options configures a Vessel, zero durations take the parameter defaults
type Options struct {
	TimeProvider           engine.TimeProvider
	LidDuration            time.Duration
	MixDuration            time.Duration
	ResetContentDuration   time.Duration
	ResetTransformDuration time.Duration

	// Home is the baseline pose restored by ResetTransform
	Home core.Transform

	Logger zerolog.Logger
	Status *status.Registry
}

// Vessel is the single mixing container shared by every placement
type Vessel struct {
	tp   engine.TimeProvider
	opts Options
	log  zerolog.Logger

	lid     *Lid
	content *ContentSet
	mixing  atomic.Bool

	mu        sync.Mutex
	state     ContentState
	color     colorTrack
	fill      scalarTrack
	pose      poseTrack
	physics   pool.Physics
	agitating bool

	statLid     *status.AtomicString
	statContent *status.AtomicString
	statCount   *atomic.Int64
}

// colorTrack is a displayed color that may be mid-tween
type colorTrack struct {
	from, to core.Color
	tween    *engine.Tween
}

func (c colorTrack) value() core.Color {
	if c.tween == nil {
		return c.to
	}
	return c.from.Lerp(c.to, c.tween.Value())
}

// scalarTrack is a displayed scalar that may be mid-tween
type scalarTrack struct {
	value float64
	tween *engine.Tween
}

func (s scalarTrack) current() float64 {
	if s.tween == nil {
		return s.value
	}
	return s.tween.Value()
}

// poseTrack is the vessel position easing back toward home
type poseTrack struct {
	from  core.Transform
	to    core.Transform
	tween *engine.Tween
}

func (p poseTrack) current() core.Transform {
	if p.tween == nil {
		return p.to
	}
	t := p.to
	t.Position = p.from.Position.Lerp(p.to.Position, p.tween.Value())
	return t
}

// New creates an empty vessel with a closed lid at its home pose
func New(opts Options) *Vessel {
	if opts.TimeProvider == nil {
		opts.TimeProvider = engine.NewMonotonicTimeProvider()
	}
	if opts.LidDuration <= 0 {
		opts.LidDuration = parameter.LidAnimationDuration
	}
	if opts.MixDuration <= 0 {
		opts.MixDuration = parameter.MixDuration
	}
	if opts.ResetContentDuration <= 0 {
		opts.ResetContentDuration = parameter.ResetContentDuration
	}
	if opts.ResetTransformDuration <= 0 {
		opts.ResetTransformDuration = parameter.ResetTransformDuration
	}
	if opts.Home.Orientation == (core.Quat{}) {
		opts.Home.Orientation = core.QuatIdentity
	}
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}

	v := &Vessel{
		tp:          opts.TimeProvider,
		opts:        opts,
		log:         opts.Logger.With().Str("component", "vessel").Logger(),
		content:     NewContentSet(),
		color:       colorTrack{from: core.Clear, to: core.Clear},
		pose:        poseTrack{from: opts.Home, to: opts.Home},
		statLid:     opts.Status.Strings.Get("vessel.lid"),
		statContent: opts.Status.Strings.Get("vessel.content"),
		statCount:   opts.Status.Ints.Get("vessel.count"),
	}
	v.lid = newLid(v.tp, opts.LidDuration, v.log)
	v.lid.onChange = func(s LidState) { v.statLid.Store(s.String()) }
	v.statLid.Store(LidClosed.String())
	v.statContent.Store(ContentEmpty.String())
	return v
}

// Lid exposes the lid for state inspection
func (v *Vessel) Lid() *Lid { return v.lid }

// OpenLid opens the lid, coalescing with any transition in progress
func (v *Vessel) OpenLid() *engine.Signal { return v.lid.Open() }

// CloseLid closes the lid, coalescing with any transition in progress
func (v *Vessel) CloseLid() *engine.Signal { return v.lid.Close() }

// LidState returns the lid's current state
func (v *Vessel) LidState() LidState { return v.lid.State() }

// Enter registers an arrived ingredient and recomputes the running preview
// Returns false if h was already inside
func (v *Vessel) Enter(h *pool.Handle) (bool, error) {
	added, err := v.content.Add(h)
	if err != nil || !added {
		return added, err
	}
	v.refreshPreview()
	v.log.Debug().Str("kind", h.Kind()).Stringer("handle", h.ID()).Int("count", v.content.Len()).Msg("ingredient entered")
	return true, nil
}

// Exit removes an ingredient that left the vessel and recomputes the preview
func (v *Vessel) Exit(h *pool.Handle) bool {
	if !v.content.Remove(h) {
		return false
	}
	v.refreshPreview()
	v.log.Debug().Str("kind", h.Kind()).Stringer("handle", h.ID()).Msg("ingredient exited")
	return true
}

func (v *Vessel) refreshPreview() {
	steps := blend.RunningMix(v.content.Colors())

	v.mu.Lock()
	defer v.mu.Unlock()
	v.statCount.Store(int64(len(steps)))
	if v.mixing.Load() {
		return
	}
	v.stopColorLocked()
	if len(steps) == 0 {
		v.color.to = core.Clear
		v.setStateLocked(ContentEmpty)
		return
	}
	v.color.to = steps[len(steps)-1]
	v.setStateLocked(ContentFilling)
}

// Contents returns the handles inside the vessel in arrival order
func (v *Vessel) Contents() []*pool.Handle { return v.content.Handles() }

// Colors returns the contained ingredient colors in arrival order
func (v *Vessel) Colors() []core.Color { return v.content.Colors() }

// Count returns the number of contained ingredients
func (v *Vessel) Count() int { return v.content.Len() }

// Contains reports whether h is inside the vessel
func (v *Vessel) Contains(h *pool.Handle) bool { return v.content.Contains(h) }

// PreviewColor returns the liquid color as currently displayed
func (v *Vessel) PreviewColor() core.Color {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.color.value()
}

// ContentState returns the content state
func (v *Vessel) ContentState() ContentState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Fill returns the liquid level in [0,1]
func (v *Vessel) Fill() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fill.current()
}

// MixButtonPressed reports whether a mix is running
func (v *Vessel) MixButtonPressed() bool { return v.mixing.Load() }

// Agitating reports whether the shake effect is active
func (v *Vessel) Agitating() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.agitating
}

// Transform returns the current vessel pose
func (v *Vessel) Transform() core.Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pose.current()
}

// SetTransform displaces the vessel, used when the scene knocks it off its pose
func (v *Vessel) SetTransform(t core.Transform) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopPoseLocked()
	v.pose = poseTrack{from: t, to: t}
}

// Physics returns the vessel's rigid-body state
func (v *Vessel) Physics() pool.Physics {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.physics
}

func (v *Vessel) setStateLocked(s ContentState) {
	v.state = s
	v.statContent.Store(s.String())
}

func (v *Vessel) stopColorLocked() {
	if v.color.tween != nil {
		current := v.color.value()
		v.color.tween.Kill()
		v.color = colorTrack{from: current, to: current}
	}
}

func (v *Vessel) stopPoseLocked() {
	if v.pose.tween != nil {
		current := v.pose.current()
		v.pose.tween.Kill()
		v.pose = poseTrack{from: current, to: current}
	}
}

func (v *Vessel) stopFillLocked() {
	if v.fill.tween != nil {
		current := v.fill.current()
		v.fill.tween.Kill()
		v.fill = scalarTrack{value: current}
	}
}

func (v *Vessel) startColorLocked(from, to core.Color, d time.Duration) *engine.Tween {
	tw := engine.StartTween(v.tp, 0, 1, d, func(t *engine.Tween) {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.color.tween == t {
			v.color = colorTrack{from: v.color.to, to: v.color.to}
		}
	})
	v.color = colorTrack{from: from, to: to, tween: tw}
	return tw
}

func (v *Vessel) startFillLocked(to float64, d time.Duration) *engine.Tween {
	tw := engine.StartTween(v.tp, v.fill.current(), to, d, func(t *engine.Tween) {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.fill.tween == t {
			v.fill = scalarTrack{value: t.Target()}
		}
	})
	v.fill = scalarTrack{value: to, tween: tw}
	return tw
}

func (v *Vessel) startPoseLocked(to core.Transform, d time.Duration) *engine.Tween {
	from := v.pose.current()
	tw := engine.StartTween(v.tp, 0, 1, d, func(t *engine.Tween) {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.pose.tween == t {
			v.pose = poseTrack{from: v.pose.to, to: v.pose.to}
		}
	})
	v.pose = poseTrack{from: from, to: to, tween: tw}
	return tw
}

// awaitTween waits for t, killing it if ctx ends first
func awaitTween(ctx context.Context, t *engine.Tween) error {
	err := engine.Await(ctx, t.Signal())
	if err != nil && ctx.Err() != nil {
		t.Kill()
	}
	return err
}
