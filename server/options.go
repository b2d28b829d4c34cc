// File: server/options.go
// License: Apache-2.0

package server

import (
	"net"

	"go.uber.org/zap"

	"github.com/frobnicators/tweaklib/registry"
	"github.com/frobnicators/tweaklib/static"
)

// ServerOption customizes server initialization.
type ServerOption func(*Server)

// WithLogger sets the logger. Without it the server is silent.
func WithLogger(l *zap.Logger) ServerOption {
	return func(s *Server) {
		s.logs.Set(l)
	}
}

// WithRegistry shares an existing registry instead of creating one.
func WithRegistry(r *registry.Registry) ServerOption {
	return func(s *Server) {
		if r != nil {
			s.reg = r
		}
	}
}

// WithStatic replaces the static file table.
func WithStatic(t *static.Table) ServerOption {
	return func(s *Server) {
		if t != nil {
			s.static = t
		}
	}
}

// WithListener serves on an already open listener instead of binding
// Host:Port.
func WithListener(ln net.Listener) ServerOption {
	return func(s *Server) {
		s.listener = ln
	}
}
