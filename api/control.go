// File: api/control.go
// Package api defines Control interface.
// License: Apache-2.0

package api

// Control exposes runtime metrics and debug probes of a running server.
type Control interface {
	Stats() map[string]any
	RegisterDebugProbe(name string, fn func() any)
	DumpState() map[string]any
}
