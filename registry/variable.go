// File: registry/variable.go
// License: Apache-2.0

package registry

import "encoding/json"

// Trigger is invoked after a variable has been updated from a connection.
// It runs without the registry lock held.
type Trigger func(v *Variable)

// Variable is one registered, tweakable value.
type Variable struct {
	handle      Handle
	name        string
	description *string
	options     json.RawMessage
	datatype    Datatype
	owned       bool
	codec       Codec
	trigger     Trigger
}

// Handle returns the handle the variable was registered under.
func (v *Variable) Handle() Handle { return v.handle }

// Name returns the registered name.
func (v *Variable) Name() string { return v.name }

// Datatype returns the wire datatype tag.
func (v *Variable) Datatype() Datatype { return v.datatype }

// Owned reports whether the backing storage was allocated by the registry
// rather than supplied by the caller.
func (v *Variable) Owned() bool { return v.owned }

// Value returns the current value in its wire form. Callers racing with
// writers should hold the registry lock.
func (v *Variable) Value() any { return v.codec.Store() }
