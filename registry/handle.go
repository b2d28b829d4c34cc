// File: registry/handle.go
// License: Apache-2.0

package registry

import "strconv"

// Handle identifies a registered variable. Zero is never issued.
//
// The low 32 bits hold slot index + 1 and the high 32 bits the generation
// the slot was filled in, so the first handles issued by a fresh registry
// are 1, 2, 3... Each handle issued is greater than every earlier one.
type Handle uint64

// InvalidHandle is the reserved zero handle.
const InvalidHandle Handle = 0

func makeHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | (uint64(index) + 1))
}

// Valid reports whether h could have been issued. It does not check that the
// variable is still registered; use Registry.Lookup for that.
func (h Handle) Valid() bool {
	return uint32(h) != 0
}

func (h Handle) index() uint32 {
	return uint32(h) - 1
}

func (h Handle) generation() uint32 {
	return uint32(h >> 32)
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}
