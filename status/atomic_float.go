package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat stores a float64 as bits in an atomic.Uint64
// Zero value represents 0.0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}
