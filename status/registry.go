package status

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// Registry is the metrics facade shared by the pool, vessel and orchestrator
// Components cache metric pointers at construction and update them lock-free
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Int returns the current value of an integer metric, 0 if never registered
func (r *Registry) Int(key string) int64 {
	if p, ok := r.Ints.Lookup(key); ok {
		return p.Load()
	}
	return 0
}

// Float returns the current value of a float metric, 0 if never registered
func (r *Registry) Float(key string) float64 {
	if p, ok := r.Floats.Lookup(key); ok {
		return p.Get()
	}
	return 0
}

// String returns the current value of a string metric, empty if never registered
func (r *Registry) String(key string) string {
	if p, ok := r.Strings.Lookup(key); ok {
		return p.Load()
	}
	return ""
}

// Metric is one formatted entry of a snapshot
type Metric struct {
	Key   string
	Value string
}

// Snapshot formats every metric, strings first, then ints, then floats,
// each group in key order
func (r *Registry) Snapshot() []Metric {
	out := make([]Metric, 0, r.Ints.Count()+r.Floats.Count()+r.Strings.Count())
	r.Strings.Range(func(k string, p *AtomicString) {
		out = append(out, Metric{k, p.Load()})
	})
	r.Ints.Range(func(k string, p *atomic.Int64) {
		out = append(out, Metric{k, strconv.FormatInt(p.Load(), 10)})
	})
	r.Floats.Range(func(k string, p *AtomicFloat) {
		out = append(out, Metric{k, fmt.Sprintf("%.2f", p.Get())})
	})
	return out
}
