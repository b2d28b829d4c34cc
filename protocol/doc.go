// File: protocol/doc.go
// License: Apache-2.0

// Package protocol implements the WebSocket wire protocol (RFC 6455) pieces
// used by tweaklib and the JSON control messages exchanged over it.
//
// Includes:
//   - Frame header encoding/decoding with explicit big-endian lengths
//   - Payload masking (word-wise, byte-wise tail)
//   - Sec-WebSocket-Accept derivation and upgrade header validation
//   - hello / refresh / update message shapes
//
// Fragmented messages are not supported: a frame without FIN is decoded so the
// stream stays in sync, and the caller discards it.
package protocol
