package control_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobnicators/tweaklib/control"
)

func TestMetricsConcurrentIncrement(t *testing.T) {
	m := control.NewMetricsRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Inc(control.MetricFramesIn)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(8000), m.Get(control.MetricFramesIn))
	assert.Equal(t, int64(0), m.Get("never.touched"))
	assert.False(t, m.Updated().IsZero())
}

func TestControlStatsMergesProbes(t *testing.T) {
	c := control.New()
	c.Metrics().Set(control.MetricConnectionsActive, 3)
	c.RegisterDebugProbe("slots.used", func() any { return 2 })

	stats := c.Stats()
	require.Contains(t, stats, control.MetricConnectionsActive)
	assert.Equal(t, int64(3), stats[control.MetricConnectionsActive])
	assert.Equal(t, 2, stats["debug.slots.used"])
	assert.Contains(t, stats, "debug.platform.cpus")

	dump := c.DumpState()
	assert.NotContains(t, dump, control.MetricConnectionsActive)
	assert.Equal(t, 2, dump["slots.used"])
}

func TestPanickingProbeIsContained(t *testing.T) {
	c := control.New()
	c.RegisterDebugProbe("broken", func() any { panic("boom") })
	c.RegisterDebugProbe("ok", func() any { return 1 })

	dump := c.DumpState()
	assert.Equal(t, "probe panic: boom", dump["broken"])
	assert.Equal(t, 1, dump["ok"])

	c.RegisterDebugProbe("broken", nil)
	assert.NotContains(t, c.DumpState(), "broken")
}
