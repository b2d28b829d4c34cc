// File: server/dispatcher.go
// License: Apache-2.0

package server

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/frobnicators/tweaklib/api"
	"github.com/frobnicators/tweaklib/control"
	"github.com/frobnicators/tweaklib/internal/http1"
	"github.com/frobnicators/tweaklib/ipc"
	"github.com/frobnicators/tweaklib/transport"
	"github.com/frobnicators/tweaklib/worker"
)

// acceptLoop hands accepted connections to the dispatcher. It exits when
// Accept fails or the dispatcher is gone.
func (s *Server) acceptLoop(ln net.Listener, out chan<- net.Conn, errc chan<- error, stop <-chan struct{}) {
	defer s.conns.Done()
	for {
		c, err := ln.Accept()
		if err != nil {
			errc <- err
			return
		}
		select {
		case out <- c:
		case <-stop:
			_ = c.Close()
			return
		}
	}
}

// dispatch waits on new connections and its own IPC channel. An accept
// failure disables the dispatcher; existing connections keep running.
func (s *Server) dispatch(accepted <-chan net.Conn, acceptErr <-chan error, stop chan struct{}) {
	log := s.logger.Named("dispatcher")
	defer close(s.dispatcherDone)
	defer close(stop)

	for {
		select {
		case <-s.ipc.Ready():
			for {
				cmd, _, ok := s.ipc.TryFetch()
				if !ok {
					break
				}
				if cmd == ipc.Shutdown {
					log.Debug("shutdown requested")
					return
				}
				log.Warn("unexpected ipc command", zap.Stringer("command", cmd))
			}

		case err := <-acceptErr:
			log.Error("accept failed, no longer accepting connections", zap.Error(err))
			return

		case c := <-accepted:
			s.admit(c, log)
		}
	}
}

// admit places c in a free slot and starts its goroutine, or answers 503
// when every slot is taken.
func (s *Server) admit(c net.Conn, log *zap.Logger) {
	id := s.nextID.Add(1)
	peer := transport.PeerString(c.RemoteAddr())

	slot := s.freeSlot()
	if slot < 0 {
		s.reject(c, id, peer, log)
		return
	}

	w := worker.New(id, slot, transport.NewConn(c), peer, s.cfg.IPCMaxPayload, s.logger.Named("conn"))
	s.slots[slot].Store(w)
	s.control.Metrics().Inc(control.MetricConnectionsAccepted)
	s.control.Metrics().Add(control.MetricConnectionsActive, 1)
	w.Logger().Debug("connection accepted")

	s.conns.Add(1)
	go s.serveConn(w)
}

func (s *Server) freeSlot() int {
	for i := range s.slots {
		if s.slots[i].Load() == nil {
			return i
		}
	}
	return -1
}

// reject answers 503 directly on the raw connection; no worker or slot is
// used.
func (s *Server) reject(c net.Conn, id uint64, peer string, log *zap.Logger) {
	s.control.Metrics().Inc(control.MetricConnectionsRejected)
	log.Info("slot table full, rejecting connection",
		zap.Stringer("code", api.ErrCodeAdmission), zap.Uint64("conn_id", id), zap.String("peer", peer))

	resp := http1.NewResponse(c, s.cfg.ServerName)
	resp.Header.Add("Connection", "close")
	if err := resp.Error(http.StatusServiceUnavailable, "too many connections"); err != nil {
		log.Debug("writing 503 failed", zap.String("peer", peer), zap.Error(err))
	}
	_ = c.Close()
}
