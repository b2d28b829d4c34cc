// File: worker/doc.go
// License: Apache-2.0

// Package worker holds the per-connection state shared between the
// dispatcher and the goroutine serving one connection.
package worker
