// File: transport/conn.go
// License: Apache-2.0

package transport

import (
	"net"
	"sync/atomic"
)

// Conn is a net.Conn whose reads first drain bytes that were read ahead by
// an earlier protocol stage, such as frame bytes that arrived together with
// the HTTP upgrade request.
type Conn struct {
	net.Conn
	pending []byte

	bytesIn  atomic.Int64
	bytesOut atomic.Int64
}

// NewConn wraps c.
func NewConn(c net.Conn) *Conn {
	if tc, ok := c.(*Conn); ok {
		return tc
	}
	return &Conn{Conn: c}
}

// Unread queues b to be returned by the following reads, ahead of anything
// still pending.
func (c *Conn) Unread(b []byte) {
	if len(b) == 0 {
		return
	}
	merged := make([]byte, 0, len(b)+len(c.pending))
	merged = append(merged, b...)
	c.pending = append(merged, c.pending...)
}

func (c *Conn) Read(p []byte) (int, error) {
	if len(c.pending) > 0 {
		n := copy(p, c.pending)
		c.pending = c.pending[n:]
		c.bytesIn.Add(int64(n))
		return n, nil
	}
	n, err := c.Conn.Read(p)
	c.bytesIn.Add(int64(n))
	return n, err
}

// Write writes all of p or returns an error. net.Conn writes already loop
// over short writes, so a short count always comes with an error.
func (c *Conn) Write(p []byte) (int, error) {
	n, err := c.Conn.Write(p)
	c.bytesOut.Add(int64(n))
	return n, err
}

// BytesIn returns the number of bytes read so far.
func (c *Conn) BytesIn() int64 { return c.bytesIn.Load() }

// BytesOut returns the number of bytes written so far.
func (c *Conn) BytesOut() int64 { return c.bytesOut.Load() }
