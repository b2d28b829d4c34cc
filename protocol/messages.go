// File: protocol/messages.go
// License: Apache-2.0
//
// JSON control messages carried in TEXT frames.

package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message types.
const (
	TypeHello   = "hello"
	TypeRefresh = "refresh"
	TypeUpdate  = "update"
)

var (
	ErrMalformedMessage = errors.New("malformed control message")
	ErrMissingType      = errors.New("control message without type")
	ErrMissingHandle    = errors.New("update without handle")
	ErrMissingValue     = errors.New("update without value")
)

// VarsMessage is the server to client envelope of hello and refresh.
type VarsMessage struct {
	Type string `json:"type"`
	Vars []any  `json:"vars"`
}

// Hello marshals the initial full state message.
func Hello(vars []any) ([]byte, error) {
	return marshalVars(TypeHello, vars)
}

// Refresh marshals an incremental push of slim entries.
func Refresh(vars []any) ([]byte, error) {
	return marshalVars(TypeRefresh, vars)
}

func marshalVars(typ string, vars []any) ([]byte, error) {
	if vars == nil {
		vars = []any{}
	}
	return json.Marshal(VarsMessage{Type: typ, Vars: vars})
}

// Inbound is a client to server message. Only update carries fields beyond
// the type.
type Inbound struct {
	Type   string          `json:"type"`
	Handle *uint64         `json:"handle,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
}

// UpdateMessage builds the wire form of an update, used by clients.
func UpdateMessage(handle uint64, value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Inbound{Type: TypeUpdate, Handle: &handle, Value: raw})
}

// ParseMessage decodes a TEXT payload. A missing type is an error; an
// unknown type is returned as is for the caller to log.
func ParseMessage(data []byte) (*Inbound, error) {
	var m Inbound
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if m.Type == "" {
		return nil, ErrMissingType
	}
	return &m, nil
}

// Update returns the handle and raw value of an update message.
func (m *Inbound) Update() (uint64, json.RawMessage, error) {
	if m.Handle == nil {
		return 0, nil, ErrMissingHandle
	}
	if len(m.Value) == 0 {
		return 0, nil, ErrMissingValue
	}
	return *m.Handle, m.Value, nil
}
