package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CachedPointers(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get("pool.tomato.active")
	b := r.Ints.Get("pool.tomato.active")
	require.Same(t, a, b)

	a.Add(3)
	assert.Equal(t, int64(3), r.Int("pool.tomato.active"))
	assert.Equal(t, int64(0), r.Int("missing"))
	assert.Equal(t, 1, r.Ints.Count(), "Int lookup must not register keys")
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Ints.Get("orchestrator.placements").Add(1)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(32), r.Int("orchestrator.placements"))
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("b").Store(2)
	r.Ints.Get("a").Store(1)
	r.Floats.Get("mix.last_similarity").Set(0.875)
	r.Strings.Get("orchestrator.phase").Store("Mixing")

	snap := r.Snapshot()
	require.Len(t, snap, 4)
	assert.Equal(t, Metric{"orchestrator.phase", "Mixing"}, snap[0])
	assert.Equal(t, Metric{"a", "1"}, snap[1])
	assert.Equal(t, Metric{"b", "2"}, snap[2])
	assert.Equal(t, Metric{"mix.last_similarity", "0.88"}, snap[3])
}

func TestAtomicString_Truncates(t *testing.T) {
	var s AtomicString
	assert.Equal(t, "", s.Load())
	s.Store("0123456789012345678901234567890")
	assert.Len(t, s.Load(), MaxStringLen)
}
