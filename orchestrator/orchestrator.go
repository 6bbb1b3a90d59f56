// Package orchestrator coordinates placements, the mix trigger and level changes
// over the shared pools and vessel of one session.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/color-mixer/audio"
	"github.com/lixenwraith/color-mixer/blend"
	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/engine/fsm"
	"github.com/lixenwraith/color-mixer/event"
	"github.com/lixenwraith/color-mixer/level"
	"github.com/lixenwraith/color-mixer/parameter"
	"github.com/lixenwraith/color-mixer/pool"
	"github.com/lixenwraith/color-mixer/status"
	"github.com/lixenwraith/color-mixer/vessel"
)

var (
	ErrUnknownHandle   = errors.New("handle is not on the shelf")
	ErrNotInteractable = errors.New("ingredient is not interactable")
	ErrSessionBusy     = errors.New("session is busy")
	ErrClosed          = errors.New("orchestrator closed")
)

// Mover flies an ingredient into the vessel
type Mover interface {
	MoveTo(ctx context.Context, h *pool.Handle, dest core.Vec3) error
}

// View is the camera and UI collaborator
type View interface {
	// ShowOrder presents the level's target color and recipe
	ShowOrder(lvl level.Level, target core.Color)
	// ContentChanged reports the running preview after each enter or exit
	ContentChanged(preview core.Color, count int)
	// ShowResults moves the camera to the results panel
	ShowResults(ctx context.Context, res blend.MixResult, passed bool) error
	// ResetView returns camera and panels to the play position
	ResetView(ctx context.Context) error
	// Notice shows a transient message
	Notice(msg string)
}

// Cues plays sound cues
type Cues interface {
	Play(cue audio.Cue)
}

// Options wires an Orchestrator; Vessel, Mover, View and Levels are required
type Options struct {
	Vessel *vessel.Vessel
	Mover  Mover
	View   View
	Levels *level.Manager
	Cues   Cues

	TimeProvider engine.TimeProvider
	Lifecycle    pool.Lifecycle

	PoolSize           int
	WaitBeforeCloseLid time.Duration
	DispatchInterval   time.Duration
	WinThreshold       float64
	PlacementWidth     float64
	ShelfDepth         float64

	// DropPoint is where the mover releases ingredients above the vessel
	DropPoint core.Vec3

	Logger zerolog.Logger
	Status *status.Registry
}

// Orchestrator is the single coordinator of one game session
type Orchestrator struct {
	opts   Options
	tp     engine.TimeProvider
	log    zerolog.Logger
	vessel *vessel.Vessel
	mover  Mover
	view   View
	cues   Cues
	levels *level.Manager

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	queue *event.Queue
	wake  chan struct{}

	scope *engine.Scope

	mu    sync.Mutex
	phase *fsm.Machine[*Orchestrator]
	pools map[string]*pool.Pool
	slots []*Slot
	// Last placement's movement, nil until a placement starts
	movement    *engine.Signal
	lastResult  *blend.MixResult
	target      core.Color
	level       level.Level
	levelStarts int
	closed      bool

	statPhase          *status.AtomicString
	statCancellations  *atomic.Int64
	statDropped        *atomic.Int64
	statPlacements     *atomic.Int64
	statMixCount       *atomic.Int64
	statLastSimilarity *status.AtomicFloat
	statLevel          *status.AtomicString
}

// New builds an orchestrator in the Idle phase; call RestartLevel to lay out the first level
func New(opts Options) (*Orchestrator, error) {
	if opts.Vessel == nil || opts.Mover == nil || opts.View == nil || opts.Levels == nil {
		return nil, fmt.Errorf("orchestrator: vessel, mover, view and levels are required")
	}
	if opts.Cues == nil {
		opts.Cues = audio.Silent{}
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = engine.NewMonotonicTimeProvider()
	}
	if opts.PoolSize < 1 {
		opts.PoolSize = parameter.PoolMaxSize
	}
	if opts.WaitBeforeCloseLid <= 0 {
		opts.WaitBeforeCloseLid = parameter.WaitBeforeCloseLid
	}
	if opts.DispatchInterval <= 0 {
		opts.DispatchInterval = parameter.DispatchInterval
	}
	if opts.WinThreshold <= 0 {
		opts.WinThreshold = parameter.WinThreshold
	}
	if opts.PlacementWidth <= 0 {
		opts.PlacementWidth = parameter.PlacementWidth
	}
	if opts.ShelfDepth <= 0 {
		opts.ShelfDepth = parameter.ShelfDepth
	}
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		opts:               opts,
		tp:                 opts.TimeProvider,
		log:                opts.Logger.With().Str("component", "orchestrator").Logger(),
		vessel:             opts.Vessel,
		mover:              opts.Mover,
		view:               opts.View,
		cues:               opts.Cues,
		levels:             opts.Levels,
		ctx:                ctx,
		cancel:             cancel,
		queue:              event.NewQueue(),
		wake:               make(chan struct{}, 1),
		scope:              engine.NewScope(ctx),
		pools:              make(map[string]*pool.Pool),
		statPhase:          opts.Status.Strings.Get("orchestrator.phase"),
		statCancellations:  opts.Status.Ints.Get("orchestrator.cancellations"),
		statDropped:        opts.Status.Ints.Get("events.dropped"),
		statPlacements:     opts.Status.Ints.Get("orchestrator.placements"),
		statMixCount:       opts.Status.Ints.Get("mix.count"),
		statLastSimilarity: opts.Status.Floats.Get("mix.last_similarity"),
		statLevel:          opts.Status.Strings.Get("level.name"),
	}

	phase, err := newPhaseMachine()
	if err != nil {
		cancel()
		return nil, err
	}
	o.phase = phase
	if err := o.phase.Init(o); err != nil {
		cancel()
		return nil, err
	}
	return o, nil
}

// Phase returns the session phase name
func (o *Orchestrator) Phase() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase.State()
}

// Target returns the current level's target color
func (o *Orchestrator) Target() core.Color {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.target
}

// Level returns the level currently laid out
func (o *Orchestrator) Level() level.Level {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.level
}

// LastResult returns the most recent mix result of this level
func (o *Orchestrator) LastResult() (blend.MixResult, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastResult == nil {
		return blend.MixResult{}, false
	}
	return *o.lastResult, true
}

// Vessel returns the shared vessel
func (o *Orchestrator) Vessel() *vessel.Vessel { return o.vessel }

// Cancellations counts close-lid waits cancelled so far
func (o *Orchestrator) Cancellations() int64 { return o.scope.Cancellations() }

// Pool returns the pool for kind, nil if the kind was never laid out
func (o *Orchestrator) Pool(kind string) *pool.Pool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pools[kind]
}

// poolLocked returns the pool for in, creating it on first use
func (o *Orchestrator) poolLocked(in level.Ingredient) *pool.Pool {
	if p, ok := o.pools[in.Name]; ok {
		return p
	}
	p := pool.New(pool.Spec{Kind: in.Name, Color: in.Color, RenewDelay: in.RenewDelay}, pool.Options{
		MaxSize:      o.opts.PoolSize,
		Lifecycle:    o.opts.Lifecycle,
		TimeProvider: o.tp,
		Logger:       o.opts.Logger,
		Status:       o.opts.Status,
	})
	o.pools[in.Name] = p
	return p
}

func (o *Orchestrator) syncCancellations() {
	o.statCancellations.Store(o.scope.Cancellations())
}

// Close cancels every in-flight sequence, waits for them and tears the pools down
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.mu.Unlock()

	o.cancel()
	o.wg.Wait()

	o.mu.Lock()
	pools := make([]*pool.Pool, 0, len(o.pools))
	for _, p := range o.pools {
		pools = append(pools, p)
	}
	o.mu.Unlock()

	for _, p := range pools {
		p.Close()
	}
	o.log.Info().Msg("orchestrator closed")
}
