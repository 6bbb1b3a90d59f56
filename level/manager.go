package level

import "sync"

// Manager tracks the current level of a fixed list
type Manager struct {
	mu     sync.Mutex
	levels []Level
	index  int
}

// NewManager starts at the first level
func NewManager(levels []Level) (*Manager, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	return &Manager{levels: levels}, nil
}

// Current returns the active level
func (m *Manager) Current() Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[m.index]
}

// Index returns the active level's position
func (m *Manager) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// Len returns the number of levels
func (m *Manager) Len() int {
	return len(m.levels)
}

// Restart returns the active level unchanged
func (m *Manager) Restart() Level {
	return m.Current()
}

// Next advances cyclically and returns the new level
func (m *Manager) Next() Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = (m.index + 1) % len(m.levels)
	return m.levels[m.index]
}
