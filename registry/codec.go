// File: registry/codec.go
// License: Apache-2.0
//
// Per-datatype conversion between backing storage and JSON wire values.

package registry

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrTypeMismatch is returned when a wire value has the wrong JSON type for
// the target variable.
var ErrTypeMismatch = errors.New("type mismatch")

// Codec converts between a variable's storage and its wire value.
//
// Load receives a value decoded with json.Decoder.UseNumber, so numbers
// arrive as json.Number. On mismatch Load must leave the storage untouched.
type Codec interface {
	Store() any
	Load(v any) error
}

type intCodec struct{ ptr *int }

func (c intCodec) Store() any { return *c.ptr }

func (c intCodec) Load(v any) error {
	n, ok := v.(json.Number)
	if !ok {
		return mismatch("integer", v)
	}
	i, err := n.Int64()
	if err != nil {
		return mismatch("integer", v)
	}
	*c.ptr = int(i)
	return nil
}

type floatCodec struct{ ptr *float32 }

func (c floatCodec) Store() any { return *c.ptr }

func (c floatCodec) Load(v any) error {
	n, ok := v.(json.Number)
	if !ok {
		return mismatch("float", v)
	}
	f, err := n.Float64()
	if err != nil {
		return mismatch("float", v)
	}
	*c.ptr = float32(f)
	return nil
}

type doubleCodec struct{ ptr *float64 }

func (c doubleCodec) Store() any { return *c.ptr }

func (c doubleCodec) Load(v any) error {
	n, ok := v.(json.Number)
	if !ok {
		return mismatch("double", v)
	}
	f, err := n.Float64()
	if err != nil {
		return mismatch("double", v)
	}
	*c.ptr = f
	return nil
}

type stringCodec struct{ ptr *string }

func (c stringCodec) Store() any { return *c.ptr }

func (c stringCodec) Load(v any) error {
	s, ok := v.(string)
	if !ok {
		return mismatch("string", v)
	}
	*c.ptr = s
	return nil
}

func mismatch(expected string, got any) error {
	return fmt.Errorf("%w: expected %s value but got %s", ErrTypeMismatch, expected, jsonTypeName(got))
}

// jsonTypeName names the JSON type of a value decoded with UseNumber.
func jsonTypeName(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return "int"
		}
		return "double"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
