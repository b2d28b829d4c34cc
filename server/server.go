// File: server/server.go
// License: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/frobnicators/tweaklib/api"
	"github.com/frobnicators/tweaklib/control"
	"github.com/frobnicators/tweaklib/internal/logging"
	"github.com/frobnicators/tweaklib/ipc"
	"github.com/frobnicators/tweaklib/pool"
	"github.com/frobnicators/tweaklib/registry"
	"github.com/frobnicators/tweaklib/static"
	"github.com/frobnicators/tweaklib/transport"
	"github.com/frobnicators/tweaklib/worker"
)

var (
	_ api.GracefulShutdown = (*Server)(nil)
	_ api.Control          = (*control.Control)(nil)
)

// NewServer builds a server. Nothing is bound until Start.
func NewServer(cfg *Config, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	c.applyDefaults()

	s := &Server{
		cfg:     &c,
		control: control.New(),
		logs:    logging.NewSwitch(nil),
		slots:   make([]atomic.Pointer[worker.Worker], c.MaxSlots),
	}
	s.logger = s.logs.Logger()
	for _, o := range opts {
		o(s)
	}
	if s.reg == nil {
		s.reg = registry.New(s.logger.Named("registry"))
	}
	if s.static == nil {
		s.static = static.New(c.StaticDir)
	}
	s.bufs = pool.NewBytePool(c.ReadBufferSize)

	s.control.RegisterDebugProbe("slots.capacity", func() any { return len(s.slots) })
	s.control.RegisterDebugProbe("slots.used", func() any { return s.SlotsUsed() })
	s.control.RegisterDebugProbe("vars.count", func() any { return s.reg.Len() })
	s.control.RegisterDebugProbe("buffers.in_use", func() any { return s.bufs.InUse() })
	return s, nil
}

// Start binds the listener (unless one was supplied) and launches the
// dispatcher. Bind failures are returned; the server stays stopped.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return api.ErrAlreadyRunning
	}

	if s.listener == nil {
		ln, err := transport.Listen(ctx, s.cfg.Host, s.cfg.Port)
		if err != nil {
			s.logger.Error("listener setup failed", zap.Error(err))
			return api.Wrap(api.ErrCodeSubsystem, "start", err)
		}
		s.listener = ln
	}

	s.ipc = ipc.NewChannel(s.cfg.IPCMaxPayload)
	s.dispatcherDone = make(chan struct{})
	s.started = true

	accepted := make(chan net.Conn)
	acceptErr := make(chan error, 1)
	stop := make(chan struct{})
	s.conns.Add(1)
	go s.acceptLoop(s.listener, accepted, acceptErr, stop)
	go s.dispatch(accepted, acceptErr, stop)

	s.logger.Info("listening", zap.String("addr", s.listener.Addr().String()),
		zap.Int("slots", len(s.slots)))
	return nil
}

// Addr returns the listening address, nil when stopped.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// SetLogger redirects the server's output, including loggers of
// connections that are already open. A nil logger silences the server.
func (s *Server) SetLogger(l *zap.Logger) { s.logs.Set(l) }

// Registry returns the variable registry served by s.
func (s *Server) Registry() *registry.Registry { return s.reg }

// GetControl exposes runtime metrics and debug control.
func (s *Server) GetControl() api.Control { return s.control }

// Stats returns counters and probe values.
func (s *Server) Stats() map[string]any { return s.control.Stats() }

// SlotsUsed returns the number of occupied connection slots.
func (s *Server) SlotsUsed() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].Load() != nil {
			n++
		}
	}
	return n
}

// Shutdown stops the dispatcher and every connection and waits for all of
// their goroutines. A connection blocked writing to a peer that stopped
// reading holds Shutdown until that write fails.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	ln := s.listener
	s.listener = nil
	s.mu.Unlock()

	if err := s.ipc.Push(ipc.Shutdown, nil); err != nil {
		s.ipcFailure("dispatcher", err)
	}
	<-s.dispatcherDone

	for i := range s.slots {
		if w := s.slots[i].Load(); w != nil {
			if err := w.Shutdown(); err != nil && !errors.Is(err, api.ErrClosed) {
				s.ipcFailure("worker", err)
			}
		}
	}

	err := ln.Close()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	s.conns.Wait()
	s.ipc.Close()
	s.logger.Info("stopped")
	if err != nil {
		return fmt.Errorf("close listener: %w", err)
	}
	return nil
}

// RequestRefresh pushes the current value of the given variables to every
// WebSocket client. Without handles every variable is pushed. Handles that
// do not resolve are skipped.
func (s *Server) RequestRefresh(handles ...registry.Handle) error {
	var payloads [][]byte
	if len(handles) == 0 {
		payloads = [][]byte{nil}
	} else {
		live := make([]uint64, 0, len(handles))
		for _, h := range handles {
			if _, ok := s.reg.Lookup(h); ok {
				live = append(live, uint64(h))
			}
		}
		payloads = ipc.SplitHandles(live, s.cfg.IPCMaxPayload)
	}

	var errs []error
	for i := range s.slots {
		w := s.slots[i].Load()
		if w == nil {
			continue
		}
		for _, p := range payloads {
			err := w.IPC.Push(ipc.Refresh, p)
			switch {
			case err == nil:
			case errors.Is(err, api.ErrClosed):
				s.control.Metrics().Inc(control.MetricIPCDropped)
			default:
				s.ipcFailure("refresh", err)
				errs = append(errs, api.Wrap(api.ErrCodeIPC, "refresh", err).WithContext("slot", i))
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Server) ipcFailure(target string, err error) {
	s.control.Metrics().Inc(control.MetricIPCFailures)
	s.logger.Named("ipc").Error("ipc push failed",
		zap.Stringer("code", api.ErrCodeIPC), zap.String("target", target), zap.Error(err))
}
