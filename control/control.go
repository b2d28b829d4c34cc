// control/control.go
// License: Apache-2.0
//
// Control bundles the metrics registry and the debug probes behind api.Control.

package control

import (
	"runtime"

	"github.com/frobnicators/tweaklib/api"
)

// Control implements api.Control.
type Control struct {
	metrics *MetricsRegistry
	debug   *DebugProbes
}

var _ api.Control = (*Control)(nil)

// New creates a Control with the platform probes already registered.
func New() *Control {
	c := &Control{
		metrics: NewMetricsRegistry(),
		debug:   NewDebugProbes(),
	}
	c.debug.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	c.debug.RegisterProbe("platform.goroutines", func() any {
		return runtime.NumGoroutine()
	})
	return c
}

// Metrics returns the underlying registry for counters.
func (c *Control) Metrics() *MetricsRegistry {
	return c.metrics
}

// Stats merges metrics and probe output; probe keys are prefixed with "debug.".
func (c *Control) Stats() map[string]any {
	combined := c.metrics.GetSnapshot()
	for k, v := range c.debug.DumpState() {
		combined["debug."+k] = v
	}
	return combined
}

// RegisterDebugProbe registers a named probe.
func (c *Control) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

// DumpState returns only the probe output.
func (c *Control) DumpState() map[string]any {
	return c.debug.DumpState()
}
