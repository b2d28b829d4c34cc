// File: registry/datatype.go
// License: Apache-2.0

package registry

// Datatype tags a variable with its wire representation. The numeric values
// are part of the browser protocol.
type Datatype int

const (
	Integer Datatype = iota
	Float
	Double
	String
	Vector
	Color
	Enum
	Time
)

func (d Datatype) String() string {
	switch d {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Double:
		return "double"
	case String:
		return "string"
	case Vector:
		return "vector"
	case Color:
		return "color"
	case Enum:
		return "enum"
	case Time:
		return "time"
	}
	return "unknown"
}

// Mode selects how much of a variable is serialized.
type Mode int

const (
	// Slim emits handle and value only; used for refresh pushes.
	Slim Mode = iota
	// Full emits every attribute; used once per new connection.
	Full
)
