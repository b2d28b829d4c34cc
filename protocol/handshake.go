// File: protocol/handshake.go
// License: Apache-2.0
//
// Upgrade header validation and Sec-WebSocket-Accept derivation.

package protocol

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"strings"
)

const (
	WebSocketGUID            = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"
	HeaderConnection         = "Connection"
	HeaderUpgrade            = "Upgrade"
	HeaderSecWebSocketKey    = "Sec-WebSocket-Key"
	HeaderSecWebSocketVer    = "Sec-WebSocket-Version"
	HeaderSecWebSocketAccept = "Sec-WebSocket-Accept"
	HeaderSecWebSocketProto  = "Sec-WebSocket-Protocol"
	RequiredWebSocketVersion = "13"
)

var (
	ErrInvalidUpgradeHeaders = errors.New("invalid WebSocket upgrade headers")
	ErrMissingWebSocketKey   = errors.New("missing Sec-WebSocket-Key header")
	ErrBadWebSocketVersion   = errors.New("unsupported WebSocket version; only '13' is supported")
)

// ValidateUpgrade checks the values of the Upgrade, Sec-WebSocket-Version
// and Sec-WebSocket-Key request headers.
func ValidateUpgrade(upgrade, version, key string) error {
	if !containsToken(upgrade, "websocket") {
		return ErrInvalidUpgradeHeaders
	}
	if strings.TrimSpace(version) != RequiredWebSocketVersion {
		return ErrBadWebSocketVersion
	}
	if strings.TrimSpace(key) == "" {
		return ErrMissingWebSocketKey
	}
	return nil
}

// ComputeAcceptKey derives Sec-WebSocket-Accept from the client key.
func ComputeAcceptKey(clientKey string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(clientKey) + WebSocketGUID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// containsToken reports whether the comma separated header value contains
// token, ignoring case.
func containsToken(value, token string) bool {
	for _, part := range strings.Split(value, ",") {
		if strings.EqualFold(strings.TrimSpace(part), token) {
			return true
		}
	}
	return false
}
