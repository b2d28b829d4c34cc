// File: protocol/frame.go
// License: Apache-2.0
//
// WebSocket frame decoding and masking.

package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrFrameTooLarge   = errors.New("frame payload exceeds limit")
	ErrReservedBits    = errors.New("reserved bits set")
	ErrControlTooLarge = errors.New("control frame payload too large")
	ErrFragmented      = errors.New("fragmented messages are not supported")
)

// WSFrame represents a decoded WebSocket frame.
type WSFrame struct {
	IsFinal    bool  // FIN bit
	Rsv        byte  // RSV1-3, still in bit positions 0x70
	Opcode     byte  // Operation code
	Masked     bool  // Whether the frame was masked
	PayloadLen int64 // Actual payload length
	MaskKey    [4]byte
	Payload    []byte // unmasked
}

// DecodeFrame reads one frame from r and returns it with the payload
// unmasked. Payloads larger than MaxFramePayload are rejected before any
// payload byte is read; that is the only limit enforced here. Reserved bits
// and oversized control frames are decoded in full and left to Check.
func DecodeFrame(r io.Reader) (*WSFrame, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	f := &WSFrame{
		IsFinal: hdr[0]&FinBit != 0,
		Rsv:     hdr[0] & 0x70,
		Opcode:  hdr[0] & 0x0F,
		Masked:  hdr[1]&MaskBit != 0,
	}

	length := int64(hdr[1] & 0x7F)
	switch length {
	case len16Marker:
		var ext [2]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return nil, err
		}
		length = int64(binary.BigEndian.Uint16(ext[:]))
	case len64Marker:
		var ext [8]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return nil, err
		}
		u := binary.BigEndian.Uint64(ext[:])
		if u > MaxFramePayload {
			return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, u)
		}
		length = int64(u)
	}
	if length > MaxFramePayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}
	f.PayloadLen = length

	if f.Masked {
		if _, err := io.ReadFull(r, f.MaskKey[:]); err != nil {
			return nil, err
		}
	}

	f.Payload = make([]byte, length)
	if _, err := io.ReadFull(r, f.Payload); err != nil {
		return nil, err
	}
	if f.Masked {
		MaskBytes(f.MaskKey, f.Payload)
	}
	return f, nil
}

// Check reports protocol violations that do not prevent reading the frame:
// reserved bits without a negotiated extension and control frames longer
// than MaxControlPayloadLen.
func (f *WSFrame) Check() error {
	if f.Rsv != 0 {
		return fmt.Errorf("%w: %#x", ErrReservedBits, f.Rsv)
	}
	if f.Opcode >= OpcodeClose && f.PayloadLen > MaxControlPayloadLen {
		return fmt.Errorf("%w: %d bytes", ErrControlTooLarge, f.PayloadLen)
	}
	return nil
}

// MaskBytes XORs b in place with the repeating 4-byte key. Whole words are
// processed four bytes at a time, the tail byte by byte. Applying it twice
// restores the input.
func MaskBytes(key [4]byte, b []byte) {
	k := binary.LittleEndian.Uint32(key[:])
	n := len(b) &^ 3
	for i := 0; i < n; i += 4 {
		binary.LittleEndian.PutUint32(b[i:], binary.LittleEndian.Uint32(b[i:])^k)
	}
	for i := n; i < len(b); i++ {
		b[i] ^= key[i&3]
	}
}
