// File: internal/http1/request.go
// License: Apache-2.0

package http1

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedRequest = errors.New("malformed http request")
	// ErrIncomplete means the header terminator has not been seen yet.
	ErrIncomplete = errors.New("incomplete http request")
)

// Recognized methods.
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

var headerEnd = []byte("\r\n\r\n")

// Request is a parsed request line plus headers.
type Request struct {
	Method  string
	Target  string // as sent, including any query
	Path    string // Target without the query string
	Version string
	Header  HeaderList
}

// ParseRequest parses the request at the start of data and returns it
// together with the number of bytes consumed through the blank line that
// ends the headers. Bytes past that point belong to whatever follows.
func ParseRequest(data []byte) (*Request, int, error) {
	end := bytes.Index(data, headerEnd)
	if end < 0 {
		return nil, 0, ErrIncomplete
	}
	consumed := end + len(headerEnd)

	lines := strings.Split(string(data[:end]), "\r\n")
	req, err := parseRequestLine(lines[0])
	if err != nil {
		return nil, consumed, err
	}
	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			return nil, consumed, fmt.Errorf("%w: bad header line %q", ErrMalformedRequest, line)
		}
		req.Header.Add(name, strings.TrimSpace(value))
	}
	return req, consumed, nil
}

func parseRequestLine(line string) (*Request, error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: request line %q", ErrMalformedRequest, line)
	}
	method, target, version := parts[0], parts[1], parts[2]
	if method != MethodGet && method != MethodPost {
		return nil, fmt.Errorf("%w: method %q", ErrMalformedRequest, method)
	}
	if !strings.HasPrefix(version, "HTTP/1.") || !strings.HasPrefix(target, "/") {
		return nil, fmt.Errorf("%w: request line %q", ErrMalformedRequest, line)
	}
	path, _, _ := strings.Cut(target, "?")
	return &Request{
		Method:  method,
		Target:  target,
		Path:    path,
		Version: version,
	}, nil
}
