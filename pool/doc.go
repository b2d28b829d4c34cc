// File: pool/doc.go
// License: Apache-2.0

// Package pool provides reusable read buffers for connection goroutines.
package pool
