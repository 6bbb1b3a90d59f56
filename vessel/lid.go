package vessel

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/color-mixer/engine"
)

// LidState is the lid's position in its open/close cycle
type LidState int

const (
	LidClosed LidState = iota
	LidOpening
	LidOpen
	LidClosing
)

var lidStateNames = [...]string{"closed", "opening", "open", "closing"}

func (s LidState) String() string {
	if int(s) < len(lidStateNames) {
		return lidStateNames[s]
	}
	return "unknown"
}

// Lid animates between closed (0) and open (1)
// At most one transition tween exists; requesting the opposite direction kills it
// and continues from the current openness
type Lid struct {
	tp       engine.TimeProvider
	duration time.Duration
	log      zerolog.Logger

	mu       sync.Mutex
	state    LidState
	tween    *engine.Tween
	onChange func(LidState)
}

func newLid(tp engine.TimeProvider, duration time.Duration, log zerolog.Logger) *Lid {
	return &Lid{tp: tp, duration: duration, log: log, state: LidClosed}
}

// Open starts opening the lid; redundant requests coalesce
func (l *Lid) Open() *engine.Signal {
	return l.move(LidOpening, LidOpen, 1)
}

// Close starts closing the lid; redundant requests coalesce
func (l *Lid) Close() *engine.Signal {
	return l.move(LidClosing, LidClosed, 0)
}

func (l *Lid) move(moving, settled LidState, target float64) *engine.Signal {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case settled:
		return engine.Completed()
	case moving:
		return l.tween.Signal()
	}

	from := l.opennessLocked()
	if l.tween != nil {
		l.tween.Kill()
		l.log.Debug().Stringer("from", l.state).Stringer("to", moving).Msg("lid transition reversed")
	}

	d := time.Duration(float64(l.duration) * math.Abs(target-from))
	l.setStateLocked(moving)
	l.tween = engine.StartTween(l.tp, from, target, d, func(t *engine.Tween) {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.tween != t {
			return
		}
		l.tween = nil
		l.setStateLocked(settled)
	})
	return l.tween.Signal()
}

func (l *Lid) setStateLocked(s LidState) {
	l.state = s
	if l.onChange != nil {
		l.onChange(s)
	}
}

// State returns the current lid state
func (l *Lid) State() LidState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Openness returns 0 for closed through 1 for open
func (l *Lid) Openness() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opennessLocked()
}

func (l *Lid) opennessLocked() float64 {
	switch {
	case l.tween != nil:
		return l.tween.Value()
	case l.state == LidOpen:
		return 1
	default:
		return 0
	}
}
