// File: transport/listen.go
// License: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// Listen opens a TCP listener on host:port with address reuse enabled so
// a restarted process can bind while old connections linger in TIME_WAIT.
// Port 0 picks a free port.
func Listen(ctx context.Context, host string, port int) (net.Listener, error) {
	lc := net.ListenConfig{Control: reuseAddr}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

// PeerString formats a remote address as "host:port", or "unknown".
func PeerString(addr net.Addr) string {
	if addr == nil {
		return "unknown"
	}
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return net.JoinHostPort(tcp.IP.String(), strconv.Itoa(tcp.Port))
	}
	return addr.String()
}
