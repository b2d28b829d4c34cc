// File: ipc/refresh.go
// License: Apache-2.0

package ipc

import (
	"encoding/binary"
	"fmt"
)

// HandleSize is the encoded width of one handle in a Refresh payload.
const HandleSize = 8

// EncodeHandles packs handles big-endian, 8 bytes each.
func EncodeHandles(handles []uint64) []byte {
	out := make([]byte, 0, len(handles)*HandleSize)
	for _, h := range handles {
		out = binary.BigEndian.AppendUint64(out, h)
	}
	return out
}

// DecodeHandles unpacks a Refresh payload.
func DecodeHandles(payload []byte) ([]uint64, error) {
	if len(payload)%HandleSize != 0 {
		return nil, fmt.Errorf("refresh payload of %d bytes is not a multiple of %d", len(payload), HandleSize)
	}
	out := make([]uint64, 0, len(payload)/HandleSize)
	for off := 0; off < len(payload); off += HandleSize {
		out = append(out, binary.BigEndian.Uint64(payload[off:]))
	}
	return out, nil
}

// SplitHandles encodes handles into payloads no larger than maxPayload.
// An empty set yields no payloads.
func SplitHandles(handles []uint64, maxPayload int) [][]byte {
	per := maxPayload / HandleSize
	if per < 1 {
		per = 1
	}
	var out [][]byte
	for len(handles) > 0 {
		n := min(per, len(handles))
		out = append(out, EncodeHandles(handles[:n]))
		handles = handles[n:]
	}
	return out
}
