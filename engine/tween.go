package engine

import (
	"sync"
	"time"

	"github.com/lixenwraith/color-mixer/core"
)

// Tween is a fixed-duration interpolation from one scalar to another
// The value is derived from the clock on demand; only completion is scheduled
type Tween struct {
	tp       TimeProvider
	start    time.Time
	duration time.Duration
	from, to float64

	signal *Signal
	stop   chan struct{}

	mu       sync.Mutex
	finished bool
	killed   bool
}

// StartTween begins interpolating from → to over d
// onComplete runs only when the tween settles naturally, never after Kill
func StartTween(tp TimeProvider, from, to float64, d time.Duration, onComplete func(*Tween)) *Tween {
	t := &Tween{
		tp:       tp,
		start:    tp.Now(),
		duration: d,
		from:     from,
		to:       to,
		signal:   NewFuture[struct{}](),
		stop:     make(chan struct{}),
	}

	timer := tp.After(d)
	core.Go(func() {
		select {
		case <-t.stop:
			t.signal.Resolve(struct{}{}, ErrKilled)
			return
		case <-timer:
		}

		t.mu.Lock()
		if t.killed {
			t.mu.Unlock()
			t.signal.Resolve(struct{}{}, ErrKilled)
			return
		}
		t.finished = true
		t.mu.Unlock()

		if onComplete != nil {
			onComplete(t)
		}
		t.signal.Resolve(struct{}{}, nil)
	})

	return t
}

// Value returns the interpolated value at the current clock time
func (t *Tween) Value() float64 {
	return t.ValueAt(t.tp.Now())
}

// ValueAt returns the interpolated value at now
func (t *Tween) ValueAt(now time.Time) float64 {
	t.mu.Lock()
	finished := t.finished
	t.mu.Unlock()
	if finished || t.duration <= 0 {
		return t.to
	}
	p := float64(now.Sub(t.start)) / float64(t.duration)
	p = min(max(p, 0), 1)
	return t.from + (t.to-t.from)*p
}

// Target returns the end value
func (t *Tween) Target() float64 {
	return t.to
}

// Kill interrupts the tween, waiters observe ErrKilled
// Returns false if the tween already settled
func (t *Tween) Kill() bool {
	t.mu.Lock()
	if t.finished || t.killed {
		t.mu.Unlock()
		return false
	}
	t.killed = true
	t.mu.Unlock()

	close(t.stop)
	return true
}

// Signal returns the wait-handle settled on completion or kill
func (t *Tween) Signal() *Signal {
	return t.signal
}
