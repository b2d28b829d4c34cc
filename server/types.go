// File: server/types.go
// License: Apache-2.0

package server

import (
	"net"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/frobnicators/tweaklib/control"
	"github.com/frobnicators/tweaklib/internal/logging"
	"github.com/frobnicators/tweaklib/ipc"
	"github.com/frobnicators/tweaklib/pool"
	"github.com/frobnicators/tweaklib/protocol"
	"github.com/frobnicators/tweaklib/registry"
	"github.com/frobnicators/tweaklib/static"
	"github.com/frobnicators/tweaklib/worker"
)

// Version is reported in the Server response header.
const Version = "0.3.0"

// Config holds all server-side configuration parameters.
type Config struct {
	Host           string // bind address, e.g. "127.0.0.1"
	Port           int    // TCP port, 0 picks a free one
	MaxSlots       int    // concurrent connections before 503
	ReadBufferSize int    // per-connection read buffer
	IPCMaxPayload  int    // largest IPC payload accepted
	Protocol       string // Sec-WebSocket-Protocol value
	StaticDir      string // on-disk override for the bundled UI
	ServerName     string // Server response header
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:           "127.0.0.1",
		Port:           8080,
		MaxSlots:       24,
		ReadBufferSize: 16384,
		IPCMaxPayload:  ipc.DefaultMaxPayload,
		Protocol:       protocol.Subprotocol,
		ServerName:     "tweaklib/" + Version,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.MaxSlots <= 0 {
		c.MaxSlots = d.MaxSlots
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.IPCMaxPayload <= 0 {
		c.IPCMaxPayload = d.IPCMaxPayload
	}
	// a targeted refresh needs room for at least one handle
	if c.IPCMaxPayload < ipc.HandleSize {
		c.IPCMaxPayload = ipc.HandleSize
	}
	if c.Protocol == "" {
		c.Protocol = d.Protocol
	}
	if c.ServerName == "" {
		c.ServerName = d.ServerName
	}
}

// Server accepts connections, serves the UI and runs the WebSocket
// protocol against a variable registry.
type Server struct {
	cfg     *Config
	reg     *registry.Registry
	static  *static.Table
	control *control.Control
	logs    *logging.Switch
	logger  *zap.Logger // writes through logs
	bufs    *pool.BytePool

	mu       sync.Mutex // guards listener and started across Start/Shutdown
	listener net.Listener
	started  bool

	slots  []atomic.Pointer[worker.Worker]
	ipc    *ipc.Channel // dispatcher's own channel
	nextID atomic.Uint64

	conns          sync.WaitGroup // connection goroutines and the acceptor
	dispatcherDone chan struct{}
}
