// File: server/websocket.go
// License: Apache-2.0
//
// WebSocket loop: hello on entry, refresh pushes from IPC, updates from
// the client.

package server

import (
	"bufio"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/frobnicators/tweaklib/api"
	"github.com/frobnicators/tweaklib/control"
	"github.com/frobnicators/tweaklib/ipc"
	"github.com/frobnicators/tweaklib/protocol"
	"github.com/frobnicators/tweaklib/registry"
	"github.com/frobnicators/tweaklib/worker"
)

func (s *Server) websocketLoop(w *worker.Worker) {
	log := w.Logger().Named("websocket")
	log.Info("websocket established")

	hello, err := protocol.Hello(s.reg.SerializeAll(registry.Full))
	if err != nil {
		log.Error("encoding hello failed", zap.Error(err))
		return
	}
	if err := s.sendText(w, hello); err != nil {
		log.Debug("sending hello failed", zap.Error(err))
		return
	}

	br := bufio.NewReaderSize(w.Conn, s.cfg.ReadBufferSize)
	frames := worker.Pump(func() (*protocol.WSFrame, error) {
		return protocol.DecodeFrame(br)
	}, w.IPC.Done())
	defer func() {
		_ = w.Close()
		for range frames {
		}
	}()

	for w.Running() {
		select {
		case <-w.IPC.Ready():
			s.drainWebSocketIPC(w, log)

		case it, ok := <-frames:
			if !ok {
				return
			}
			if it.Err != nil {
				switch {
				case errors.Is(it.Err, io.EOF), errors.Is(it.Err, io.ErrUnexpectedEOF):
					log.Info("peer closed connection")
				case errors.Is(it.Err, protocol.ErrFrameTooLarge):
					log.Warn("oversized frame, closing connection", zap.Error(it.Err))
				default:
					log.Debug("frame read failed", zap.Error(it.Err))
				}
				return
			}
			s.control.Metrics().Inc(control.MetricFramesIn)
			s.handleFrame(w, it.Value, log)
		}
	}
}

func (s *Server) drainWebSocketIPC(w *worker.Worker, log *zap.Logger) {
	for w.IPC.Len() > 0 && w.Running() {
		cmd, payload := w.HandleIPC()
		switch cmd {
		case ipc.Handled:
		case ipc.Refresh:
			if err := s.pushRefresh(w, payload); err != nil {
				log.Debug("refresh push failed", zap.Error(err))
				w.Stop()
			}
		default:
			log.Warn("unexpected ipc command", zap.Stringer("command", cmd))
		}
	}
}

// pushRefresh sends slim entries for the handles in payload, or for every
// variable when payload is empty.
func (s *Server) pushRefresh(w *worker.Worker, payload []byte) error {
	var vars []any
	if len(payload) == 0 {
		vars = s.reg.SerializeAll(registry.Slim)
	} else {
		raw, err := ipc.DecodeHandles(payload)
		if err != nil {
			s.control.Metrics().Inc(control.MetricIPCFailures)
			w.Logger().Error("corrupt refresh payload", zap.Error(err))
			return nil
		}
		handles := make([]registry.Handle, len(raw))
		for i, h := range raw {
			handles[i] = registry.Handle(h)
		}
		vars = s.reg.SerializeSet(handles, registry.Slim)
	}
	if len(vars) == 0 {
		return nil
	}

	msg, err := protocol.Refresh(vars)
	if err != nil {
		return err
	}
	return s.sendText(w, msg)
}

func (s *Server) handleFrame(w *worker.Worker, f *protocol.WSFrame, log *zap.Logger) {
	if !f.IsFinal {
		log.Warn("fragmented frame discarded", zap.Error(protocol.ErrFragmented),
			zap.String("opcode", protocol.OpcodeName(f.Opcode)), zap.Int64("len", f.PayloadLen))
		return
	}
	if err := f.Check(); err != nil {
		log.Warn("frame violates protocol", zap.Stringer("code", api.ErrCodeProtocol),
			zap.String("opcode", protocol.OpcodeName(f.Opcode)), zap.Error(err))
		// payload may belong to an extension that was never negotiated
		if errors.Is(err, protocol.ErrReservedBits) {
			return
		}
	}

	switch f.Opcode {
	case protocol.OpcodeText:
		s.handleMessage(f.Payload, log)
	case protocol.OpcodeClose:
		log.Debug("close frame received")
		w.Stop()
	default:
		log.Debug("unhandled frame", zap.String("opcode", protocol.OpcodeName(f.Opcode)))
	}
}

// handleMessage applies one control message. Every failure is logged and
// the connection stays open.
func (s *Server) handleMessage(payload []byte, log *zap.Logger) {
	msg, err := protocol.ParseMessage(payload)
	if err != nil {
		log.Warn("control message ignored", zap.Stringer("code", api.ErrCodeProtocol), zap.Error(err))
		return
	}
	if msg.Type != protocol.TypeUpdate {
		log.Warn("unknown control message type", zap.String("type", msg.Type))
		return
	}

	h, value, err := msg.Update()
	if err != nil {
		log.Warn("update ignored", zap.Stringer("code", api.ErrCodeProtocol), zap.Error(err))
		return
	}
	if err := s.reg.ApplyUpdate(registry.Handle(h), value); err != nil {
		s.control.Metrics().Inc(control.MetricUpdatesRejected)
		log.Warn("update rejected", zap.Uint64("handle", h), zap.Error(err))
		return
	}
	s.control.Metrics().Inc(control.MetricUpdatesApplied)
}

// sendText writes one unmasked final TEXT frame.
func (s *Server) sendText(w *worker.Worker, payload []byte) error {
	if _, err := w.Conn.Write(protocol.EncodeText(payload)); err != nil {
		return err
	}
	s.control.Metrics().Inc(control.MetricFramesOut)
	return nil
}
