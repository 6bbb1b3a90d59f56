package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/status"
)

var (
	ErrPoolExhausted = errors.New("pool exhausted")
	ErrPoolClosed    = errors.New("pool closed")
	ErrForeignHandle = errors.New("handle issued by another pool")
)

// Options configures a Pool
type Options struct {
	// MaxSize caps the number of instances ever created, minimum 1
	MaxSize int

	// Lifecycle defaults to Ingredients
	Lifecycle Lifecycle

	// TimeProvider defaults to the monotonic clock
	TimeProvider engine.TimeProvider

	Logger zerolog.Logger
	Status *status.Registry
}

// Pool issues and recycles ingredient handles of one kind
// Instances are created lazily up to MaxSize and destroyed only on Close
// Every method is one critical section over the idle/active partition
type Pool struct {
	spec    Spec
	maxSize int
	lc      Lifecycle
	tp      engine.TimeProvider
	log     zerolog.Logger

	mu     sync.Mutex
	idle   []*Handle
	active map[uuid.UUID]*Handle
	all    map[uuid.UUID]*Handle
	closed bool

	// Lifetime of scheduled replenishments, cancelled only by Close
	ctx     context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup

	statActive    *atomic.Int64
	statIdle      *atomic.Int64
	statCreated   *atomic.Int64
	statExhausted *atomic.Int64
	statPending   *atomic.Int64
}

// New creates an empty pool for spec
func New(spec Spec, opts Options) *Pool {
	if opts.MaxSize < 1 {
		opts.MaxSize = 1
	}
	if opts.Lifecycle == nil {
		opts.Lifecycle = Ingredients{Log: opts.Logger}
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = engine.NewMonotonicTimeProvider()
	}
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}

	ctx, cancel := context.WithCancel(context.Background())
	prefix := "pool." + spec.Kind + "."
	return &Pool{
		spec:          spec,
		maxSize:       opts.MaxSize,
		lc:            opts.Lifecycle,
		tp:            opts.TimeProvider,
		log:           opts.Logger.With().Str("kind", spec.Kind).Logger(),
		active:        make(map[uuid.UUID]*Handle),
		all:           make(map[uuid.UUID]*Handle),
		ctx:           ctx,
		cancel:        cancel,
		statActive:    opts.Status.Ints.Get(prefix + "active"),
		statIdle:      opts.Status.Ints.Get(prefix + "idle"),
		statCreated:   opts.Status.Ints.Get(prefix + "created"),
		statExhausted: opts.Status.Ints.Get(prefix + "exhausted"),
		statPending:   opts.Status.Ints.Get(prefix + "pending"),
	}
}

// Spec returns the ingredient kind served by the pool
func (p *Pool) Spec() Spec { return p.spec }

// MaxSize returns the creation cap
func (p *Pool) MaxSize() int { return p.maxSize }

// Acquire checks out a ready handle placed at at
// Reuses an idle instance when one exists, otherwise creates one below the cap
func (p *Pool) Acquire(at core.Transform) (*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("acquire %s: %w", p.spec.Kind, ErrPoolClosed)
	}

	var h *Handle
	if n := len(p.idle); n > 0 {
		h = p.idle[n-1]
		p.idle[n-1] = nil
		p.idle = p.idle[:n-1]
	} else if len(p.all) < p.maxSize {
		h = p.lc.Create(p.spec)
		h.pool = p
		p.all[h.id] = h
		p.statCreated.Add(1)
	} else {
		p.statExhausted.Add(1)
		p.log.Warn().Int("max_size", p.maxSize).Msg("pool exhausted")
		return nil, fmt.Errorf("acquire %s: %w", p.spec.Kind, ErrPoolExhausted)
	}

	p.lc.Take(h, at)
	h.checkedOut = true
	p.active[h.id] = h
	p.updateStatsLocked()
	return h, nil
}

// Release returns a checked-out handle to the idle set
// Releasing an idle or foreign handle is a no-op and returns false
func (p *Pool) Release(h *Handle) bool {
	if h == nil {
		return false
	}
	if h.pool != p {
		p.log.Warn().Stringer("handle", h.id).Err(ErrForeignHandle).Msg("release ignored")
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !h.checkedOut || p.closed {
		return false
	}

	p.lc.Return(h)
	h.checkedOut = false
	delete(p.active, h.id)
	p.idle = append(p.idle, h)
	p.updateStatsLocked()
	return true
}

// ScheduleReplenish acquires a handle at at once delay has elapsed
// Detached from every interaction scope; only Close stops it
func (p *Pool) ScheduleReplenish(at core.Transform, delay time.Duration) *engine.Future[*Handle] {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return engine.Failed[*Handle](fmt.Errorf("replenish %s: %w", p.spec.Kind, ErrPoolClosed))
	}
	p.pending.Add(1)
	p.statPending.Add(1)
	p.mu.Unlock()

	f := engine.NewFuture[*Handle]()
	core.Go(func() {
		defer p.pending.Done()
		defer p.statPending.Add(-1)

		if err := engine.Sleep(p.ctx, p.tp, delay); err != nil {
			f.Resolve(nil, fmt.Errorf("replenish %s: %w", p.spec.Kind, ErrPoolClosed))
			return
		}
		h, err := p.Acquire(at)
		if err != nil {
			p.log.Warn().Err(err).Msg("replenish failed")
		}
		f.Resolve(h, err)
	})
	return f
}

// Active returns the number of checked-out handles
func (p *Pool) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}

// Idle returns the number of handles ready for reuse
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Size returns the number of instances created so far
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.all)
}

// Close stops pending replenishments and destroys every instance
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.cancel()
	p.mu.Unlock()

	p.pending.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range p.all {
		h.checkedOut = false
		p.lc.Destroy(h)
	}
	p.all = make(map[uuid.UUID]*Handle)
	p.active = make(map[uuid.UUID]*Handle)
	p.idle = nil
	p.updateStatsLocked()
}

func (p *Pool) updateStatsLocked() {
	p.statActive.Store(int64(len(p.active)))
	p.statIdle.Store(int64(len(p.idle)))
}
