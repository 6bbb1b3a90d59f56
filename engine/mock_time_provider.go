package engine

import (
	"sort"
	"sync"
	"time"
)

// MockTimeProvider provides a controllable time source for testing
// Timers registered through After fire only when Advance moves past their deadline
type MockTimeProvider struct {
	mu          sync.Mutex
	cond        *sync.Cond
	currentTime time.Time
	waiters     []mockWaiter
}

type mockWaiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewMockTimeProvider creates a new mock time provider with the given start time
func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	m := &MockTimeProvider{currentTime: startTime}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Now returns the current mocked time
func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

// After registers a timer relative to the mocked time
// Non-positive durations fire immediately
func (m *MockTimeProvider) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- m.currentTime
		return ch
	}
	m.waiters = append(m.waiters, mockWaiter{deadline: m.currentTime.Add(d), ch: ch})
	m.cond.Broadcast()
	return ch
}

// SetTime sets the current time for the mock and fires due timers
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
	m.fireLocked()
}

// Advance advances the current time by the given duration and fires due timers
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
	m.fireLocked()
}

// Waiters returns the number of pending timers
func (m *MockTimeProvider) Waiters() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}

// BlockUntil waits until at least n timers are pending
func (m *MockTimeProvider) BlockUntil(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.waiters) < n {
		m.cond.Wait()
	}
}

func (m *MockTimeProvider) fireLocked() {
	sort.SliceStable(m.waiters, func(i, j int) bool {
		return m.waiters[i].deadline.Before(m.waiters[j].deadline)
	})

	kept := m.waiters[:0]
	for _, w := range m.waiters {
		if !w.deadline.After(m.currentTime) {
			w.ch <- m.currentTime
			continue
		}
		kept = append(kept, w)
	}
	for i := len(kept); i < len(m.waiters); i++ {
		m.waiters[i] = mockWaiter{}
	}
	m.waiters = kept
}
