// File: client/client.go
// License: Apache-2.0

// Package client is a WebSocket client for a tweaklib server. It keeps a
// local copy of the variables announced in hello, follows refresh pushes
// and sends updates.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/frobnicators/tweaklib/api"
	"github.com/frobnicators/tweaklib/protocol"
	"github.com/frobnicators/tweaklib/registry"
)

// ErrUnknownVariable is returned for names or handles the server did not
// announce.
var ErrUnknownVariable = fmt.Errorf("unknown variable: %w", api.ErrNotFound)

// Var is the client side view of one variable.
type Var struct {
	Handle      uint64            `json:"handle"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Options     json.RawMessage   `json:"options"`
	Datatype    registry.Datatype `json:"datatype"`
	Value       json.RawMessage   `json:"value"`
}

// Change is one entry of a refresh push.
type Change struct {
	Handle uint64          `json:"handle"`
	Value  json.RawMessage `json:"value"`
}

type message struct {
	Type string            `json:"type"`
	Vars []json.RawMessage `json:"vars"`
}

// Config holds client settings.
type Config struct {
	HandshakeTimeout time.Duration
	Logger           *zap.Logger
}

// Client is a connected session.
type Client struct {
	conn   *websocket.Conn
	logger *zap.Logger

	mu    sync.RWMutex
	vars  map[uint64]*Var
	order []uint64

	writeMu sync.Mutex
}

// Dial connects to addr (host:port or a ws:// URL) and waits for hello.
func Dial(ctx context.Context, addr string, cfg Config) (*Client, error) {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	u, err := socketURL(addr)
	if err != nil {
		return nil, err
	}
	d := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: cfg.HandshakeTimeout,
		Subprotocols:     []string{protocol.Subprotocol},
	}
	conn, _, err := d.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}

	c := &Client{conn: conn, logger: cfg.Logger, vars: map[uint64]*Var{}}
	msg, err := c.read(ctx)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if msg.Type != protocol.TypeHello {
		_ = conn.Close()
		return nil, fmt.Errorf("expected hello, got %q", msg.Type)
	}
	for _, raw := range msg.Vars {
		var v Var
		if err := json.Unmarshal(raw, &v); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("decode hello entry: %w", err)
		}
		c.vars[v.Handle] = &v
		c.order = append(c.order, v.Handle)
	}
	c.logger.Debug("connected", zap.String("url", u), zap.Int("vars", len(c.order)))
	return c, nil
}

func socketURL(addr string) (string, error) {
	if addr == "" {
		return "", fmt.Errorf("empty address: %w", api.ErrInvalidArgument)
	}
	u, err := url.Parse(addr)
	if err != nil || u.Host == "" {
		u = &url.URL{Scheme: "ws", Host: addr}
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/socket"
	}
	return u.String(), nil
}

// read returns the next hello or refresh message. ctx cancellation
// interrupts the read and leaves the connection unusable.
func (c *Client) read(ctx context.Context) (*message, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		if typ != websocket.TextMessage {
			continue
		}
		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("undecodable message", zap.Error(err))
			continue
		}
		return &msg, nil
	}
}

// Vars returns the known variables in announcement order.
func (c *Client) Vars() []Var {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Var, 0, len(c.order))
	for _, h := range c.order {
		out = append(out, *c.vars[h])
	}
	return out
}

// Find returns the first variable called name.
func (c *Client) Find(name string) (Var, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, h := range c.order {
		if v := c.vars[h]; v.Name == name {
			return *v, true
		}
	}
	return Var{}, false
}

// Set sends an update. The server logs and ignores values of the wrong
// type; there is no acknowledgement.
func (c *Client) Set(handle uint64, value any) error {
	raw, err := protocol.UpdateMessage(handle, value)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, raw)
}

// SetByName parses text according to the variable's datatype and sends it.
func (c *Client) SetByName(name, text string) error {
	v, ok := c.Find(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	value, err := ParseValue(v.Datatype, text)
	if err != nil {
		return fmt.Errorf("variable %q: %w", name, err)
	}
	return c.Set(v.Handle, value)
}

// ParseValue converts text into the Go value sent for datatype.
func ParseValue(datatype registry.Datatype, text string) (any, error) {
	switch datatype {
	case registry.Integer:
		return strconv.Atoi(text)
	case registry.Float:
		f, err := strconv.ParseFloat(text, 32)
		return float32(f), err
	case registry.Double:
		return strconv.ParseFloat(text, 64)
	case registry.String:
		return text, nil
	}
	return nil, fmt.Errorf("datatype %s: %w", datatype, api.ErrNotSupported)
}

// Next waits for the next refresh push and applies it to the local copy.
func (c *Client) Next(ctx context.Context) ([]Change, error) {
	for {
		msg, err := c.read(ctx)
		if err != nil {
			return nil, err
		}
		if msg.Type != protocol.TypeRefresh {
			c.logger.Debug("ignoring message", zap.String("type", msg.Type))
			continue
		}

		changes := make([]Change, 0, len(msg.Vars))
		for _, raw := range msg.Vars {
			var ch Change
			if err := json.Unmarshal(raw, &ch); err != nil {
				return nil, fmt.Errorf("decode refresh entry: %w", err)
			}
			changes = append(changes, ch)
		}

		c.mu.Lock()
		for _, ch := range changes {
			if v, ok := c.vars[ch.Handle]; ok {
				v.Value = ch.Value
			}
		}
		c.mu.Unlock()
		return changes, nil
	}
}

// Close closes the connection, sending a close frame first.
func (c *Client) Close() error {
	c.writeMu.Lock()
	err := c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	c.writeMu.Unlock()
	if cerr := c.conn.Close(); err == nil || errors.Is(err, websocket.ErrCloseSent) {
		err = cerr
	}
	return err
}
