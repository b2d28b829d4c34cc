// File: protocol/constants.go
// License: Apache-2.0
//
// WebSocket wire protocol constants

package protocol

const (
	// Control opcodes (<0x8)
	OpcodeContinuation = 0x0
	OpcodeText         = 0x1
	OpcodeBinary       = 0x2
	OpcodeClose        = 0x8
	OpcodePing         = 0x9
	OpcodePong         = 0xA

	// Frame limit settings
	MaxControlPayloadLen = 125

	// Bit masks
	FinBit  = 0x80
	MaskBit = 0x80

	// Length markers in the 7-bit base length
	len16Marker = 126
	len64Marker = 127
)

// Subprotocol is announced in Sec-WebSocket-Protocol on every upgrade.
const Subprotocol = "v1.tweaklib.sidvind.com"

// OpcodeName returns a readable opcode name for logs.
func OpcodeName(op byte) string {
	switch op {
	case OpcodeContinuation:
		return "continuation"
	case OpcodeText:
		return "text"
	case OpcodeBinary:
		return "binary"
	case OpcodeClose:
		return "close"
	case OpcodePing:
		return "ping"
	case OpcodePong:
		return "pong"
	}
	return "reserved"
}
