// File: registry/registry.go
// License: Apache-2.0

package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/frobnicators/tweaklib/api"
)

type slot struct {
	v          *Variable
	generation uint32
}

// Registry owns the registered variables and the value lock.
type Registry struct {
	mu    sync.RWMutex // guards slots, free and variable metadata
	slots []slot
	free  []uint32
	count int
	epoch uint32 // generation given to new registrations

	valueMu sync.Mutex // guards variable values

	logger atomic.Pointer[zap.Logger]
}

// New creates an empty registry. A nil logger disables logging.
func New(logger *zap.Logger) *Registry {
	r := &Registry{}
	r.SetLogger(logger)
	return r
}

// SetLogger replaces the logger. A nil logger disables logging.
func (r *Registry) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r.logger.Store(logger)
}

func (r *Registry) log() *zap.Logger { return r.logger.Load() }

// Lock acquires the value lock. Application code holds it while writing
// registered variables it wants published without tearing.
func (r *Registry) Lock() { r.valueMu.Lock() }

// Unlock releases the value lock.
func (r *Registry) Unlock() { r.valueMu.Unlock() }

// Register adds a variable backed by codec and returns its handle.
func (r *Registry) Register(name string, datatype Datatype, codec Codec) Handle {
	return r.add(name, datatype, codec, false)
}

func (r *Registry) add(name string, datatype Datatype, codec Codec, owned bool) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
		// the reused index may be lower than ones already issued
		r.epoch++
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, slot{})
	}

	s := &r.slots[idx]
	s.generation = r.epoch
	h := makeHandle(idx, s.generation)
	s.v = &Variable{
		handle:   h,
		name:     name,
		datatype: datatype,
		owned:    owned,
		codec:    codec,
	}
	r.count++
	r.log().Debug("variable registered",
		zap.String("name", name),
		zap.Stringer("handle", h),
		zap.Stringer("datatype", datatype))
	return h
}

// RegisterInt registers an integer variable. A nil ptr makes the registry
// allocate and own the storage.
func (r *Registry) RegisterInt(name string, ptr *int) Handle {
	owned := ptr == nil
	if owned {
		ptr = new(int)
	}
	return r.add(name, Integer, intCodec{ptr}, owned)
}

// RegisterFloat registers a single precision variable.
func (r *Registry) RegisterFloat(name string, ptr *float32) Handle {
	owned := ptr == nil
	if owned {
		ptr = new(float32)
	}
	return r.add(name, Float, floatCodec{ptr}, owned)
}

// RegisterDouble registers a double precision variable.
func (r *Registry) RegisterDouble(name string, ptr *float64) Handle {
	owned := ptr == nil
	if owned {
		ptr = new(float64)
	}
	return r.add(name, Double, doubleCodec{ptr}, owned)
}

// RegisterString registers a string variable.
func (r *Registry) RegisterString(name string, ptr *string) Handle {
	owned := ptr == nil
	if owned {
		ptr = new(string)
	}
	return r.add(name, String, stringCodec{ptr}, owned)
}

// lookupLocked resolves h; r.mu must be held.
func (r *Registry) lookupLocked(h Handle) *Variable {
	if !h.Valid() {
		return nil
	}
	idx := h.index()
	if int(idx) >= len(r.slots) {
		return nil
	}
	s := r.slots[idx]
	if s.generation != h.generation() {
		return nil
	}
	return s.v
}

// Lookup returns the variable for h. Handle zero, handles never issued and
// handles of unregistered variables are not found.
func (r *Registry) Lookup(h Handle) (*Variable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v := r.lookupLocked(h)
	return v, v != nil
}

// SetDescription sets the human readable description. Unknown handles are
// ignored.
func (r *Registry) SetDescription(h Handle, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v := r.lookupLocked(h); v != nil {
		v.description = &description
	}
}

// SetOptions attaches a JSON options blob (e.g. {"min":0,"max":10}). The
// registry does not interpret it. Invalid JSON is logged and ignored, as are
// unknown handles.
func (r *Registry) SetOptions(h Handle, options string) {
	if !json.Valid([]byte(options)) {
		r.log().Warn("invalid options json ignored", zap.Stringer("handle", h))
		return
	}
	var compact bytes.Buffer
	_ = json.Compact(&compact, []byte(options))

	r.mu.Lock()
	defer r.mu.Unlock()
	if v := r.lookupLocked(h); v != nil {
		v.options = json.RawMessage(compact.Bytes())
	}
}

// SetTrigger installs the callback invoked after a remote update. Unknown
// handles are ignored.
func (r *Registry) SetTrigger(h Handle, fn Trigger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v := r.lookupLocked(h); v != nil {
		v.trigger = fn
	}
}

// Unregister removes the variable behind h. The handle, and any copy of
// it, resolves to not found afterwards.
func (r *Registry) Unregister(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupLocked(h) == nil {
		return false
	}
	idx := h.index()
	r.slots[idx].v = nil
	r.free = append(r.free, idx)
	r.count--
	return true
}

// Clear invalidates every handle. Used at teardown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.free = r.free[:0]
	for i := range r.slots {
		r.slots[i].v = nil
		r.free = append(r.free, uint32(len(r.slots)-1-i))
	}
	r.count = 0
}

// Len returns the number of registered variables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Handles returns the live handles in slot order.
func (r *Registry) Handles() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Handle, 0, r.count)
	for _, s := range r.slots {
		if s.v != nil {
			out = append(out, s.v.handle)
		}
	}
	return out
}

// ApplyUpdate writes a wire value into the variable behind h.
//
// The value lock is held only around the write; the trigger is invoked after
// the lock is released. A type mismatch is logged as a warning and leaves
// the stored value unchanged.
func (r *Registry) ApplyUpdate(h Handle, raw json.RawMessage) error {
	r.mu.RLock()
	v := r.lookupLocked(h)
	var trigger Trigger
	if v != nil {
		trigger = v.trigger
	}
	r.mu.RUnlock()
	if v == nil {
		return fmt.Errorf("handle %d: %w", h, api.ErrNotFound)
	}

	value, err := decodeWire(raw)
	if err != nil {
		r.log().Warn("update value is not valid json",
			zap.String("name", v.name), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}

	r.valueMu.Lock()
	err = v.codec.Load(value)
	r.valueMu.Unlock()
	if err != nil {
		r.log().Warn("update ignored",
			zap.String("name", v.name),
			zap.Stringer("handle", h),
			zap.Error(err))
		return fmt.Errorf("variable %q: %w", v.name, err)
	}

	if trigger != nil {
		trigger(v)
	}
	return nil
}

func decodeWire(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}
