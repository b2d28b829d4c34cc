// File: registry/serialize.go
// License: Apache-2.0

package registry

import "encoding/json"

// FullEntry is the complete description of a variable sent in a hello
// message. Absent description and options encode as null.
type FullEntry struct {
	Handle      Handle          `json:"handle"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Options     json.RawMessage `json:"options"`
	Datatype    Datatype        `json:"datatype"`
	Value       any             `json:"value"`
}

// SlimEntry carries only what a refresh needs.
type SlimEntry struct {
	Handle Handle `json:"handle"`
	Value  any    `json:"value"`
}

// Serialize converts v into its wire entry. Metadata is copied under the
// registry lock and the value under the value lock; the two are never held
// together.
func (r *Registry) Serialize(v *Variable, mode Mode) any {
	var meta FullEntry
	if mode == Full {
		r.mu.RLock()
		meta = FullEntry{
			Handle:      v.handle,
			Name:        v.name,
			Description: v.description,
			Options:     v.options,
			Datatype:    v.datatype,
		}
		r.mu.RUnlock()
	}

	r.valueMu.Lock()
	value := v.codec.Store()
	r.valueMu.Unlock()

	if mode == Full {
		meta.Value = value
		return meta
	}
	return SlimEntry{Handle: v.handle, Value: value}
}

// SerializeAll serializes every registered variable in slot order.
func (r *Registry) SerializeAll(mode Mode) []any {
	return r.SerializeSet(r.Handles(), mode)
}

// SerializeSet serializes the variables behind handles, skipping handles
// that no longer resolve.
func (r *Registry) SerializeSet(handles []Handle, mode Mode) []any {
	out := make([]any, 0, len(handles))
	for _, h := range handles {
		v, ok := r.Lookup(h)
		if !ok {
			continue
		}
		out = append(out, r.Serialize(v, mode))
	}
	return out
}
