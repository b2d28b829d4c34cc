package transport_test

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobnicators/tweaklib/transport"
)

func TestUnreadServedFirst(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	c := transport.NewConn(a)
	c.Unread([]byte("lo"))
	c.Unread([]byte("hel"))

	go func() {
		_, _ = b.Write([]byte(" world"))
		buf := make([]byte, 2)
		_, _ = io.ReadFull(b, buf)
	}()
	buf := make([]byte, 11)
	_, err := io.ReadFull(c, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(buf))
	assert.Equal(t, int64(11), c.BytesIn())

	n, err := c.Write([]byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, int64(2), c.BytesOut())
	assert.Same(t, c, transport.NewConn(c))
}

func TestListenAndPeer(t *testing.T) {
	ln, err := transport.Listen(context.Background(), "127.0.0.1", 0)
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	srv := <-accepted
	defer srv.Close()
	assert.Equal(t, client.LocalAddr().String(), transport.PeerString(srv.RemoteAddr()))
	assert.Equal(t, "unknown", transport.PeerString(nil))
}
