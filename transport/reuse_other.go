// File: transport/reuse_other.go
// License: Apache-2.0

//go:build !unix

package transport

import "syscall"

func reuseAddr(network, address string, c syscall.RawConn) error { return nil }
