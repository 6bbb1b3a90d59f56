package status

import (
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "colormixer"

// Collector exports a Registry to Prometheus
// Ints and floats become gauges; strings become info gauges fixed at 1 with a value label
type Collector struct {
	reg *Registry
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector wraps reg
func NewCollector(reg *Registry) *Collector {
	return &Collector{reg: reg}
}

// Describe sends nothing, the metric set grows as pools are created
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.reg.Ints.Range(func(key string, p *atomic.Int64) {
		ch <- prometheus.MustNewConstMetric(desc(key, nil), prometheus.GaugeValue, float64(p.Load()))
	})
	c.reg.Floats.Range(func(key string, p *AtomicFloat) {
		ch <- prometheus.MustNewConstMetric(desc(key, nil), prometheus.GaugeValue, p.Get())
	})
	c.reg.Strings.Range(func(key string, p *AtomicString) {
		ch <- prometheus.MustNewConstMetric(desc(key, []string{"value"}), prometheus.GaugeValue, 1, p.Load())
	})
}

// MetricName maps a registry key such as "pool.tomato.active" to "colormixer_pool_tomato_active"
func MetricName(key string) string {
	var sb strings.Builder
	sb.Grow(len(namespace) + 1 + len(key))
	sb.WriteString(namespace)
	sb.WriteByte('_')
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func desc(key string, labels []string) *prometheus.Desc {
	return prometheus.NewDesc(MetricName(key), "color-mixer status "+key, labels, nil)
}
