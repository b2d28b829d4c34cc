// File: server/conn.go
// License: Apache-2.0
//
// Per-connection HTTP loop and WebSocket upgrade.

package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/frobnicators/tweaklib/api"
	"github.com/frobnicators/tweaklib/control"
	"github.com/frobnicators/tweaklib/internal/http1"
	"github.com/frobnicators/tweaklib/ipc"
	"github.com/frobnicators/tweaklib/protocol"
	"github.com/frobnicators/tweaklib/transport"
	"github.com/frobnicators/tweaklib/worker"
)

// SocketPath is the request path that upgrades to WebSocket.
const SocketPath = "/socket"

// serveConn runs one connection to completion and releases its slot as
// the very last step.
func (s *Server) serveConn(w *worker.Worker) {
	defer func() {
		if r := recover(); r != nil {
			w.Logger().Error("connection panic",
				zap.Stringer("code", api.ErrCodeConnection), zap.Any("panic", r), zap.Stack("stack"))
		}
		_ = w.Close()
		s.control.Metrics().Add(control.MetricConnectionsActive, -1)
		if tc, ok := w.Conn.(*transport.Conn); ok {
			s.control.Metrics().Add(control.MetricBytesIn, tc.BytesIn())
			s.control.Metrics().Add(control.MetricBytesOut, tc.BytesOut())
			w.Logger().Debug("connection closed",
				zap.Int64("bytes_in", tc.BytesIn()), zap.Int64("bytes_out", tc.BytesOut()))
		} else {
			w.Logger().Debug("connection closed")
		}
		s.slots[w.Slot].CompareAndSwap(w, nil)
		s.conns.Done()
	}()
	s.httpLoop(w)
}

// httpLoop reads requests until the peer closes, the worker is stopped or
// the connection upgrades, in which case it continues as the WebSocket
// loop and never returns here.
func (s *Server) httpLoop(w *worker.Worker) {
	conn := w.Conn.(*transport.Conn)
	log := w.Logger()

	buf := s.bufs.Get()
	var pending <-chan worker.ReadResult
	defer func() {
		if pending != nil {
			_ = w.Close()
			<-pending
		}
		s.bufs.Put(buf)
	}()

	filled := 0
	for w.Running() {
		if pending == nil {
			pending = worker.ReadAsync(conn, buf[filled:])
		}

		select {
		case <-w.IPC.Ready():
			s.drainHTTPIPC(w)

		case r := <-pending:
			pending = nil
			if r.N == 0 {
				if r.Err != nil && !errors.Is(r.Err, io.EOF) {
					log.Debug("read failed", zap.Error(r.Err))
				}
				return
			}
			filled += r.N

			for w.Running() {
				req, n, err := http1.ParseRequest(buf[:filled])
				if errors.Is(err, http1.ErrIncomplete) {
					if filled == len(buf) {
						log.Warn("request headers exceed read buffer, dropped", zap.Int("size", filled))
						filled = 0
					}
					break
				}
				filled = copy(buf, buf[n:filled])
				if err != nil {
					log.Warn("malformed request dropped", zap.Error(err))
					continue
				}

				if s.handleRequest(w, req) {
					conn.Unread(buf[:filled])
					s.websocketLoop(w)
					return
				}
			}
			if r.Err != nil {
				return
			}
		}
	}
}

func (s *Server) drainHTTPIPC(w *worker.Worker) {
	for w.IPC.Len() > 0 {
		cmd, _ := w.HandleIPC()
		switch cmd {
		case ipc.Handled:
		case ipc.Refresh:
			// not upgraded yet; the hello message will carry current values
		default:
			w.Logger().Warn("unexpected ipc command", zap.Stringer("command", cmd))
		}
	}
}

// handleRequest answers req and reports whether the connection was
// upgraded.
func (s *Server) handleRequest(w *worker.Worker, req *http1.Request) bool {
	log := w.Logger()
	resp := http1.NewResponse(w.Conn, s.cfg.ServerName)
	log.Debug("request", zap.String("method", req.Method), zap.String("target", req.Target))

	var err error
	switch {
	case req.Method == http1.MethodGet && req.Path == SocketPath:
		var upgraded bool
		upgraded, err = s.upgrade(w, req, resp)
		if err == nil && upgraded {
			return true
		}
	case req.Method == http1.MethodGet:
		if f, ok := s.static.Lookup(req.Target); ok {
			resp.Header.Add("Content-Type", f.ContentType)
			if _, err = resp.Write(f.Data); err == nil {
				err = resp.Finish()
			}
		}
	}

	if err == nil && resp.Status() == 0 {
		err = resp.Error(http.StatusNotFound, fmt.Sprintf("no handler for %s %s", req.Method, req.Path))
	}
	if err != nil {
		log.Debug("write failed", zap.Error(err))
		w.Stop()
	}
	return false
}

// upgrade validates the handshake and sends 101. A bad handshake gets 400
// and the connection stays in HTTP mode.
func (s *Server) upgrade(w *worker.Worker, req *http1.Request, resp *http1.Response) (bool, error) {
	upgrade, _ := req.Header.GetFold(protocol.HeaderUpgrade)
	version, _ := req.Header.GetFold(protocol.HeaderSecWebSocketVer)
	key, _ := req.Header.GetFold(protocol.HeaderSecWebSocketKey)

	if err := protocol.ValidateUpgrade(upgrade, version, key); err != nil {
		w.Logger().Warn("bad upgrade request", zap.Error(err))
		return false, resp.Error(http.StatusBadRequest, err.Error())
	}

	_ = resp.SetStatus(http.StatusSwitchingProtocols)
	resp.Header.Del("Transfer-Encoding")
	resp.Header.Add(protocol.HeaderUpgrade, "websocket")
	resp.Header.Add(protocol.HeaderConnection, "Upgrade")
	resp.Header.Add(protocol.HeaderSecWebSocketAccept, protocol.ComputeAcceptKey(key))
	resp.Header.Add(protocol.HeaderSecWebSocketProto, s.cfg.Protocol)
	if err := resp.Finish(); err != nil {
		return false, err
	}
	return true, nil
}
