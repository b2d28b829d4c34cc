// File: internal/http1/doc.go
// License: Apache-2.0

// Package http1 is the minimal HTTP/1.1 layer in front of the WebSocket
// upgrade: request line and header parsing, an ordered header list and a
// chunked response writer. Request bodies are not read.
package http1
