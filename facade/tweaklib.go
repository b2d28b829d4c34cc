// File: facade/tweaklib.go
// License: Apache-2.0
//
// Tweaklib ties a variable registry to a server behind the small API an
// application embeds: register variables, start serving, push refreshes,
// shut down.

package facade

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/frobnicators/tweaklib/api"
	"github.com/frobnicators/tweaklib/internal/logging"
	"github.com/frobnicators/tweaklib/registry"
	"github.com/frobnicators/tweaklib/server"
)

// Tweaklib is one registry plus at most one running server.
// It implements api.GracefulShutdown.
type Tweaklib struct {
	mu     sync.Mutex
	reg    *registry.Registry
	srv    *server.Server
	logger *zap.Logger
}

var _ api.GracefulShutdown = (*Tweaklib)(nil)

// New returns an instance with an empty registry and no output.
func New() *Tweaklib {
	t := &Tweaklib{logger: zap.NewNop()}
	t.reg = registry.New(nil)
	return t
}

// SetOutput routes log lines to sink; nil silences the library. Takes
// effect at once, also for a server that is already running.
func (t *Tweaklib) SetOutput(sink logging.Sink) {
	t.SetLogger(logging.NewSinkLogger(sink, zapcore.DebugLevel))
}

// SetLogger is SetOutput for callers that already have a zap logger.
func (t *Tweaklib) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	t.mu.Lock()
	t.logger = l
	srv := t.srv
	t.mu.Unlock()
	t.reg.SetLogger(l.Named("registry"))
	if srv != nil {
		srv.SetLogger(l)
	}
}

// Init starts serving on address:port with default settings.
func (t *Tweaklib) Init(port int, address string) error {
	cfg := server.DefaultConfig()
	cfg.Port = port
	cfg.Host = address
	return t.InitConfig(cfg)
}

// InitConfig starts serving with cfg.
func (t *Tweaklib) InitConfig(cfg *server.Config) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.srv != nil {
		return api.ErrAlreadyRunning
	}

	srv, err := server.NewServer(cfg, server.WithRegistry(t.reg), server.WithLogger(t.logger))
	if err != nil {
		return err
	}
	if err := srv.Start(context.Background()); err != nil {
		return err
	}
	t.srv = srv
	return nil
}

// Server returns the running server, nil before Init.
func (t *Tweaklib) Server() *server.Server {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.srv
}

// Registry returns the variable registry.
func (t *Tweaklib) Registry() *registry.Registry { return t.reg }

// Cleanup stops the server, waits for every connection and invalidates
// every handle.
func (t *Tweaklib) Cleanup() error {
	t.mu.Lock()
	srv := t.srv
	t.srv = nil
	t.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown()
	}
	t.reg.Clear()
	return err
}

// Shutdown implements api.GracefulShutdown.
func (t *Tweaklib) Shutdown() error { return t.Cleanup() }

// RegisterInt exposes *ptr as an integer. A nil ptr lets the library own
// the storage.
func (t *Tweaklib) RegisterInt(name string, ptr *int) registry.Handle {
	return t.reg.RegisterInt(name, ptr)
}

// RegisterFloat exposes *ptr as a single precision float.
func (t *Tweaklib) RegisterFloat(name string, ptr *float32) registry.Handle {
	return t.reg.RegisterFloat(name, ptr)
}

// RegisterDouble exposes *ptr as a double precision float.
func (t *Tweaklib) RegisterDouble(name string, ptr *float64) registry.Handle {
	return t.reg.RegisterDouble(name, ptr)
}

// RegisterString exposes *ptr as a string.
func (t *Tweaklib) RegisterString(name string, ptr *string) registry.Handle {
	return t.reg.RegisterString(name, ptr)
}

func (t *Tweaklib) SetTrigger(h registry.Handle, fn registry.Trigger) { t.reg.SetTrigger(h, fn) }

func (t *Tweaklib) SetDescription(h registry.Handle, description string) {
	t.reg.SetDescription(h, description)
}

func (t *Tweaklib) SetOptions(h registry.Handle, options string) { t.reg.SetOptions(h, options) }

// RequestRefresh pushes current values to connected clients: the given
// handles, or every variable when none are given. Without a running server
// it does nothing.
func (t *Tweaklib) RequestRefresh(handles ...registry.Handle) error {
	srv := t.Server()
	if srv == nil {
		return nil
	}
	return srv.RequestRefresh(handles...)
}

// Lock takes the value lock. Hold it while writing registered variables
// that may be serialized concurrently.
func (t *Tweaklib) Lock() { t.reg.Lock() }

// Unlock releases the value lock.
func (t *Tweaklib) Unlock() { t.reg.Unlock() }
