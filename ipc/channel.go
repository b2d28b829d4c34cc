// File: ipc/channel.go
// License: Apache-2.0

package ipc

import (
	"context"
	"fmt"
	"sync"

	"github.com/eapache/queue"

	"github.com/frobnicators/tweaklib/api"
)

// DefaultMaxPayload is the payload cap used when none is configured.
const DefaultMaxPayload = 16384

var (
	ErrClosed          = fmt.Errorf("ipc channel: %w", api.ErrClosed)
	ErrPayloadTooLarge = fmt.Errorf("ipc payload too large: %w", api.ErrResourceExhausted)
)

type message struct {
	cmd     Command
	payload []byte
}

// Channel is an in-process command channel with a single consumer.
//
// Producers never block. The consumer either blocks in Fetch or selects on
// Ready and drains with TryFetch; one notification may stand for several
// queued messages.
type Channel struct {
	mu     sync.Mutex
	q      *queue.Queue
	closed bool

	notify chan struct{}
	done   chan struct{}

	maxPayload int
}

// NewChannel creates a channel accepting payloads up to maxPayload bytes.
// A non-positive maxPayload selects DefaultMaxPayload.
func NewChannel(maxPayload int) *Channel {
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayload
	}
	return &Channel{
		q:          queue.New(),
		notify:     make(chan struct{}, 1),
		done:       make(chan struct{}),
		maxPayload: maxPayload,
	}
}

// MaxPayload returns the payload cap.
func (c *Channel) MaxPayload() int { return c.maxPayload }

// Push enqueues cmd with a copy of payload. An oversized payload is
// rejected and nothing is enqueued.
func (c *Channel) Push(cmd Command, payload []byte) error {
	if len(payload) > c.maxPayload {
		return fmt.Errorf("%w: %d > %d bytes", ErrPayloadTooLarge, len(payload), c.maxPayload)
	}
	var owned []byte
	if len(payload) > 0 {
		owned = append(make([]byte, 0, len(payload)), payload...)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.q.Add(message{cmd: cmd, payload: owned})
	c.mu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
	return nil
}

// Ready is signalled after a Push. Consumers drain with TryFetch once it
// fires.
func (c *Channel) Ready() <-chan struct{} { return c.notify }

// Done is closed by Close.
func (c *Channel) Done() <-chan struct{} { return c.done }

// TryFetch pops the oldest message without blocking.
func (c *Channel) TryFetch() (Command, []byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.q.Length() == 0 {
		return None, nil, false
	}
	m := c.q.Remove().(message)
	return m.cmd, m.payload, true
}

// Fetch blocks until a message is available, ctx is done or the channel is
// closed and drained.
func (c *Channel) Fetch(ctx context.Context) (Command, []byte, error) {
	for {
		if cmd, payload, ok := c.TryFetch(); ok {
			return cmd, payload, nil
		}
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return None, nil, ErrClosed
		}

		select {
		case <-c.notify:
		case <-c.done:
		case <-ctx.Done():
			return None, nil, ctx.Err()
		}
	}
}

// Len returns the number of queued messages.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.q.Length()
}

// Close refuses further pushes. Messages already queued can still be
// fetched. Close is idempotent.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}
