package protocol_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frobnicators/tweaklib/protocol"
)

func TestComputeAcceptKey(t *testing.T) {
	// RFC 6455 section 1.3
	assert.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", protocol.ComputeAcceptKey("dGhlIHNhbXBsZSBub25jZQ=="))
}

func TestValidateUpgrade(t *testing.T) {
	key := "dGhlIHNhbXBsZSBub25jZQ=="
	assert.NoError(t, protocol.ValidateUpgrade("websocket", "13", key))
	assert.NoError(t, protocol.ValidateUpgrade("WebSocket", " 13 ", key))

	cases := []struct {
		upgrade, version, key string
		want                  error
	}{
		{"", "13", key, protocol.ErrInvalidUpgradeHeaders},
		{"h2c", "13", key, protocol.ErrInvalidUpgradeHeaders},
		{"websocket", "8", key, protocol.ErrBadWebSocketVersion},
		{"websocket", "", key, protocol.ErrBadWebSocketVersion},
		{"websocket", "13", "", protocol.ErrMissingWebSocketKey},
	}
	for _, c := range cases {
		err := protocol.ValidateUpgrade(c.upgrade, c.version, c.key)
		assert.True(t, errors.Is(err, c.want), "%+v: %v", c, err)
	}
}
