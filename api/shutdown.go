// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// License: Apache-2.0

package api

// GracefulShutdown is implemented by components that own goroutines.
type GracefulShutdown interface {
	// Shutdown stops every goroutine owned by the component and returns
	// once all of them have exited.
	Shutdown() error
}
