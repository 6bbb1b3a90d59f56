package status

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricName(t *testing.T) {
	assert.Equal(t, "colormixer_pool_tomato_active", MetricName("pool.tomato.active"))
	assert.Equal(t, "colormixer_mix_last_similarity", MetricName("mix.last_similarity"))
	assert.Equal(t, "colormixer_level_name", MetricName("level-name"))
}

func TestCollectorGather(t *testing.T) {
	reg := NewRegistry()
	reg.Ints.Get("mix.count").Store(3)
	reg.Floats.Get("mix.last_similarity").Set(0.9)
	reg.Strings.Get("orchestrator.phase").Store("Idle")

	promReg := prometheus.NewRegistry()
	require.NoError(t, promReg.Register(NewCollector(reg)))

	families, err := promReg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	labels := make(map[string]string)
	for _, mf := range families {
		m := mf.GetMetric()[0]
		values[mf.GetName()] = m.GetGauge().GetValue()
		for _, lp := range m.GetLabel() {
			labels[mf.GetName()] = lp.GetValue()
		}
	}

	assert.Equal(t, 3.0, values["colormixer_mix_count"])
	assert.InDelta(t, 0.9, values["colormixer_mix_last_similarity"], 1e-9)
	assert.Equal(t, 1.0, values["colormixer_orchestrator_phase"])
	assert.Equal(t, "Idle", labels["colormixer_orchestrator_phase"])

	// Metrics registered later show up on the next scrape
	reg.Ints.Get("pool.tomato.active").Store(2)
	families, err = promReg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}
