package render

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/color-mixer/blend"
	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/level"
	"github.com/lixenwraith/color-mixer/orchestrator"
	"github.com/lixenwraith/color-mixer/parameter"
)

var _ orchestrator.View = (*TerminalView)(nil)

// ViewState is a snapshot of what the view currently presents
type ViewState struct {
	Level   level.Level
	Target  core.Color
	Preview core.Color
	Count   int

	// Camera is 0 at the play position and 1 on the results panel
	Camera float64
	Result *blend.MixResult
	Passed bool

	Notice string
}

// ViewOptions configures a TerminalView
type ViewOptions struct {
	TimeProvider   engine.TimeProvider
	CameraDuration time.Duration
	NoticeDuration time.Duration
	Logger         zerolog.Logger
}

// TerminalView holds the camera and UI panel state drawn by the scene renderers
type TerminalView struct {
	tp             engine.TimeProvider
	cameraDuration time.Duration
	noticeDuration time.Duration
	log            zerolog.Logger

	mu       sync.Mutex
	level    level.Level
	target   core.Color
	preview  core.Color
	count    int
	camera   float64
	tween    *engine.Tween
	result   *blend.MixResult
	passed   bool
	notice   string
	noticeAt time.Time
}

// NewTerminalView creates a view with the camera at the play position
func NewTerminalView(opts ViewOptions) *TerminalView {
	if opts.TimeProvider == nil {
		opts.TimeProvider = engine.NewMonotonicTimeProvider()
	}
	if opts.CameraDuration <= 0 {
		opts.CameraDuration = parameter.CameraDuration
	}
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = parameter.NoticeDuration
	}
	return &TerminalView{
		tp:             opts.TimeProvider,
		cameraDuration: opts.CameraDuration,
		noticeDuration: opts.NoticeDuration,
		log:            opts.Logger.With().Str("component", "view").Logger(),
		preview:        core.Clear,
	}
}

// ShowOrder presents the level's target color and recipe
func (v *TerminalView) ShowOrder(lvl level.Level, target core.Color) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.level = lvl
	v.target = target
}

// ContentChanged records the running preview
func (v *TerminalView) ContentChanged(preview core.Color, count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.preview = preview
	v.count = count
}

// ShowResults fills the results panel and pans the camera to it
func (v *TerminalView) ShowResults(ctx context.Context, res blend.MixResult, passed bool) error {
	v.mu.Lock()
	v.result = &res
	v.passed = passed
	t := v.panLocked(1)
	v.mu.Unlock()

	v.log.Debug().Int("percent", res.Percent()).Bool("passed", passed).Msg("Showing results")
	return v.await(ctx, t)
}

// ResetView pans back to the play position and clears the results panel
func (v *TerminalView) ResetView(ctx context.Context) error {
	v.mu.Lock()
	t := v.panLocked(0)
	v.mu.Unlock()

	if err := v.await(ctx, t); err != nil {
		return err
	}

	v.mu.Lock()
	if v.tween == nil && v.camera == 0 {
		v.result = nil
		v.passed = false
		v.preview = core.Clear
		v.count = 0
	}
	v.mu.Unlock()
	return nil
}

// Notice shows msg until the notice duration elapses
func (v *TerminalView) Notice(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notice = msg
	v.noticeAt = v.tp.Now()
}

// State returns a snapshot for rendering
func (v *TerminalView) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := ViewState{
		Level:   v.level,
		Target:  v.target,
		Preview: v.preview,
		Count:   v.count,
		Camera:  v.cameraLocked(),
		Passed:  v.passed,
	}
	if v.result != nil {
		r := *v.result
		s.Result = &r
	}
	if v.notice != "" && v.tp.Now().Sub(v.noticeAt) < v.noticeDuration {
		s.Notice = v.notice
	}
	return s
}

func (v *TerminalView) cameraLocked() float64 {
	if v.tween != nil {
		return v.tween.Value()
	}
	return v.camera
}

// panLocked starts a camera move to target, reversing any move in flight
func (v *TerminalView) panLocked(target float64) *engine.Tween {
	from := v.cameraLocked()
	if v.tween != nil {
		v.tween.Kill()
		v.tween = nil
	}
	v.camera = from

	d := time.Duration(float64(v.cameraDuration) * abs(target-from))
	t := engine.StartTween(v.tp, from, target, d, func(done *engine.Tween) {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.tween == done {
			v.camera = done.Target()
			v.tween = nil
		}
	})
	v.tween = t
	return t
}

// await waits for t; on ctx end the camera freezes where it is
func (v *TerminalView) await(ctx context.Context, t *engine.Tween) error {
	err := engine.Await(ctx, t.Signal())
	if err != nil && ctx.Err() != nil {
		v.mu.Lock()
		if v.tween == t {
			v.camera = t.Value()
			v.tween = nil
		}
		v.mu.Unlock()
		t.Kill()
	}
	return err
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
