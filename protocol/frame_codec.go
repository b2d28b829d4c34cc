// File: protocol/frame_codec.go
// License: Apache-2.0
//
// Frame encoding.

package protocol

import "encoding/binary"

// MaxFramePayload defines the maximum allowed payload size for a single
// inbound frame.
const MaxFramePayload = 1 << 20 // 1 MiB

// HeaderLen returns the header size of an unmasked frame carrying n bytes.
func HeaderLen(n int) int {
	switch {
	case n < len16Marker:
		return 2
	case n <= 0xFFFF:
		return 4
	default:
		return 10
	}
}

// AppendFrame appends a complete frame to dst. A non-nil mask masks the
// payload copy; the caller's payload is never modified.
func AppendFrame(dst []byte, opcode byte, final bool, payload []byte, mask *[4]byte) []byte {
	b0 := opcode & 0x0F
	if final {
		b0 |= FinBit
	}
	var mbit byte
	if mask != nil {
		mbit = MaskBit
	}

	n := len(payload)
	switch {
	case n < len16Marker:
		dst = append(dst, b0, mbit|byte(n))
	case n <= 0xFFFF:
		dst = append(dst, b0, mbit|len16Marker)
		dst = binary.BigEndian.AppendUint16(dst, uint16(n))
	default:
		dst = append(dst, b0, mbit|len64Marker)
		dst = binary.BigEndian.AppendUint64(dst, uint64(n))
	}

	if mask == nil {
		return append(dst, payload...)
	}
	dst = append(dst, mask[:]...)
	start := len(dst)
	dst = append(dst, payload...)
	MaskBytes(*mask, dst[start:])
	return dst
}

// EncodeText returns an unmasked final TEXT frame, the only frame kind the
// server sends.
func EncodeText(payload []byte) []byte {
	return AppendFrame(make([]byte, 0, HeaderLen(len(payload))+len(payload)), OpcodeText, true, payload, nil)
}
