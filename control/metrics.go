// control/metrics.go
// License: Apache-2.0
//
// Runtime metrics collector for system-level monitoring.
// Counters are created on first use and are safe for concurrent increment.

package control

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metric keys recorded by the server.
const (
	MetricConnectionsAccepted = "connections.accepted"
	MetricConnectionsRejected = "connections.rejected"
	MetricConnectionsActive   = "connections.active"
	MetricFramesIn            = "frames.in"
	MetricFramesOut           = "frames.out"
	MetricUpdatesApplied      = "updates.applied"
	MetricUpdatesRejected     = "updates.rejected"
	MetricIPCFailures         = "ipc.failures"
	MetricIPCDropped          = "ipc.dropped"
	MetricBytesIn             = "bytes.in"  // closed connections only
	MetricBytesOut            = "bytes.out" // closed connections only
)

// MetricsRegistry holds named counters and gauges.
type MetricsRegistry struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64
	updated  atomic.Int64
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counters: make(map[string]*atomic.Int64),
	}
}

func (mr *MetricsRegistry) counter(key string) *atomic.Int64 {
	mr.mu.RLock()
	c, ok := mr.counters[key]
	mr.mu.RUnlock()
	if ok {
		return c
	}
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if c, ok = mr.counters[key]; !ok {
		c = new(atomic.Int64)
		mr.counters[key] = c
	}
	return c
}

// Add adds delta to a counter and returns the new value.
func (mr *MetricsRegistry) Add(key string, delta int64) int64 {
	mr.updated.Store(time.Now().UnixNano())
	return mr.counter(key).Add(delta)
}

// Inc increments a counter by one.
func (mr *MetricsRegistry) Inc(key string) {
	mr.Add(key, 1)
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value int64) {
	mr.updated.Store(time.Now().UnixNano())
	mr.counter(key).Store(value)
}

// Get returns the current value of key, zero when never touched.
func (mr *MetricsRegistry) Get(key string) int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	if c, ok := mr.counters[key]; ok {
		return c.Load()
	}
	return 0
}

// Updated reports when any metric last changed.
func (mr *MetricsRegistry) Updated() time.Time {
	ns := mr.updated.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.counters))
	for k, v := range mr.counters {
		out[k] = v.Load()
	}
	return out
}
