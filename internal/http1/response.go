// File: internal/http1/response.go
// License: Apache-2.0

package http1

import (
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
)

// ErrHeaderWritten is returned when the status or headers change after
// they were sent.
var ErrHeaderWritten = errors.New("response header already written")

// Response writes one response. Bodies are sent with chunked transfer
// encoding; a 101 response carries headers only.
type Response struct {
	w           io.Writer
	status      int
	Header      HeaderList
	wroteHeader bool
	finished    bool
}

// NewResponse prepares a response with the default headers.
func NewResponse(w io.Writer, server string) *Response {
	r := &Response{w: w}
	r.Header.Add("Server", server)
	r.Header.Add("Connection", "keep-alive")
	r.Header.Add("Transfer-Encoding", "chunked")
	return r
}

// Status returns the status set so far, zero if none.
func (r *Response) Status() int { return r.status }

// SetStatus sets the status code.
func (r *Response) SetStatus(code int) error {
	if r.wroteHeader {
		return ErrHeaderWritten
	}
	r.status = code
	return nil
}

// WriteHeader sends the status line and headers. The status defaults to 200.
func (r *Response) WriteHeader() error {
	if r.wroteHeader {
		return ErrHeaderWritten
	}
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.wroteHeader = true
	if _, err := fmt.Fprintf(r.w, "HTTP/1.1 %d %s\r\n", r.status, StatusText(r.status)); err != nil {
		return err
	}
	if _, err := r.Header.WriteTo(r.w); err != nil {
		return err
	}
	_, err := io.WriteString(r.w, "\r\n")
	return err
}

// Write sends p as one chunk, writing the header first if needed.
func (r *Response) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		if err := r.WriteHeader(); err != nil {
			return 0, err
		}
	}
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := io.WriteString(r.w, strconv.FormatInt(int64(len(p)), 16)+"\r\n"); err != nil {
		return 0, err
	}
	n, err := r.w.Write(p)
	if err != nil {
		return n, err
	}
	_, err = io.WriteString(r.w, "\r\n")
	return n, err
}

// Finish terminates the chunked body. Responses without chunked encoding
// only get their header flushed.
func (r *Response) Finish() error {
	if r.finished {
		return nil
	}
	if !r.wroteHeader {
		if err := r.WriteHeader(); err != nil {
			return err
		}
	}
	r.finished = true
	if _, chunked := r.Header.Get("Transfer-Encoding"); !chunked {
		return nil
	}
	_, err := io.WriteString(r.w, "0\r\n\r\n")
	return err
}

// Error sends a complete error page for code.
func (r *Response) Error(code int, details string) error {
	if err := r.SetStatus(code); err != nil {
		return err
	}
	r.Header.Add("Content-Type", "text/html; charset=utf-8")
	page := fmt.Sprintf("<h1>%d: %s</h1><p>%s</p>", code, StatusText(code), html.EscapeString(details))
	if _, err := r.Write([]byte(page)); err != nil {
		return err
	}
	return r.Finish()
}

// StatusText returns the reason phrase for code.
func StatusText(code int) string {
	if s := http.StatusText(code); s != "" {
		return s
	}
	return "Unknown"
}
