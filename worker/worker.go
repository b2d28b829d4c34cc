// File: worker/worker.go
// License: Apache-2.0
//
// Per-connection worker state, IPC handling and the single outstanding read.

package worker

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frobnicators/tweaklib/ipc"
)

// Worker is the state of one live connection.
//
// The dispatcher creates it and publishes it in a slot; the connection
// goroutine owns everything else and clears the slot as its last step.
type Worker struct {
	ID      uint64
	Session uuid.UUID
	Slot    int
	Conn    net.Conn
	Peer    string
	IPC     *ipc.Channel

	running   atomic.Bool
	closeOnce sync.Once
	logger    *zap.Logger
}

// New creates a running worker for conn. The IPC channel accepts payloads of
// up to maxPayload bytes.
func New(id uint64, slot int, conn net.Conn, peer string, maxPayload int, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Worker{
		ID:      id,
		Session: uuid.New(),
		Slot:    slot,
		Conn:    conn,
		Peer:    peer,
		IPC:     ipc.NewChannel(maxPayload),
	}
	w.logger = logger.With(
		zap.Uint64("conn_id", id),
		zap.String("session", w.Session.String()),
		zap.String("peer", peer),
		zap.Int("slot", slot))
	w.running.Store(true)
	return w
}

// Logger returns the worker's logger, tagged with its identity.
func (w *Worker) Logger() *zap.Logger { return w.logger }

// Running reports whether the connection loop should keep going.
func (w *Worker) Running() bool { return w.running.Load() }

// Stop flips the running flag. The loop exits at its next check.
func (w *Worker) Stop() { w.running.Store(false) }

// Shutdown asks the connection goroutine to stop through its IPC channel.
func (w *Worker) Shutdown() error {
	return w.IPC.Push(ipc.Shutdown, nil)
}

// HandleIPC pops one IPC message. Shutdown is handled here by stopping the
// worker and is reported as ipc.Handled; every other command is returned to
// the caller with its payload. An empty channel also reports Handled.
func (w *Worker) HandleIPC() (ipc.Command, []byte) {
	cmd, payload, ok := w.IPC.TryFetch()
	if !ok {
		return ipc.Handled, nil
	}
	if cmd == ipc.Shutdown {
		w.logger.Debug("shutdown requested")
		w.Stop()
		return ipc.Handled, nil
	}
	return cmd, payload
}

// Close stops the worker, closes its IPC channel and the connection.
// Safe to call more than once.
func (w *Worker) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.Stop()
		w.IPC.Close()
		if w.Conn != nil {
			err = w.Conn.Close()
		}
	})
	return err
}
