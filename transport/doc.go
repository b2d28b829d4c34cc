// File: transport/doc.go
// License: Apache-2.0

// Package transport creates the listening socket and wraps accepted
// connections.
package transport
