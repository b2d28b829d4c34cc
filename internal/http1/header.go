// File: internal/http1/header.go
// License: Apache-2.0

package http1

import (
	"io"
	"strings"
)

// Header is one name/value pair.
type Header struct {
	Name  string
	Value string
}

// HeaderList is an ordered list of headers with case-sensitive names.
// Adding an existing name overwrites its value in place. Deleting swaps the
// last entry into the freed position, so order is not kept after a delete.
type HeaderList struct {
	items []Header
}

// Add sets name to value.
func (l *HeaderList) Add(name, value string) {
	for i := range l.items {
		if l.items[i].Name == name {
			l.items[i].Value = value
			return
		}
	}
	l.items = append(l.items, Header{Name: name, Value: value})
}

// Get returns the value stored under exactly name.
func (l *HeaderList) Get(name string) (string, bool) {
	for _, h := range l.items {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

// GetFold is Get with a case-insensitive name match.
func (l *HeaderList) GetFold(name string) (string, bool) {
	if v, ok := l.Get(name); ok {
		return v, true
	}
	for _, h := range l.items {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Del removes name and reports whether it was present.
func (l *HeaderList) Del(name string) bool {
	for i := range l.items {
		if l.items[i].Name == name {
			last := len(l.items) - 1
			l.items[i] = l.items[last]
			l.items = l.items[:last]
			return true
		}
	}
	return false
}

// Len returns the number of headers.
func (l *HeaderList) Len() int { return len(l.items) }

// All returns the headers in list order. The slice must not be modified.
func (l *HeaderList) All() []Header { return l.items }

// WriteTo writes "Name: Value\r\n" lines in list order.
func (l *HeaderList) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, h := range l.items {
		sb.WriteString(h.Name)
		sb.WriteString(": ")
		sb.WriteString(h.Value)
		sb.WriteString("\r\n")
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
