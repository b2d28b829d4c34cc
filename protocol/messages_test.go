package protocol_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobnicators/tweaklib/protocol"
)

func TestHelloEmpty(t *testing.T) {
	out, err := protocol.Hello(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"hello","vars":[]}`, string(out))
}

func TestRefreshEnvelope(t *testing.T) {
	out, err := protocol.Refresh([]any{map[string]any{"handle": 1, "value": 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"refresh","vars":[{"handle":1,"value":2}]}`, string(out))
}

func TestParseUpdate(t *testing.T) {
	m, err := protocol.ParseMessage([]byte(`{"type":"update","handle":3,"value":"x"}`))
	require.NoError(t, err)
	h, v, err := m.Update()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), h)
	assert.Equal(t, `"x"`, string(v))
}

func TestUpdateMessageRoundTrip(t *testing.T) {
	raw, err := protocol.UpdateMessage(7, 1.25)
	require.NoError(t, err)
	m, err := protocol.ParseMessage(raw)
	require.NoError(t, err)
	h, v, err := m.Update()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), h)
	assert.Equal(t, `1.25`, string(v))
}

func TestParseErrors(t *testing.T) {
	_, err := protocol.ParseMessage([]byte(`{bad`))
	assert.True(t, errors.Is(err, protocol.ErrMalformedMessage))

	_, err = protocol.ParseMessage([]byte(`{"handle":1}`))
	assert.True(t, errors.Is(err, protocol.ErrMissingType))

	_, err = protocol.ParseMessage([]byte(`{"type":"update","handle":1.5,"value":1}`))
	assert.True(t, errors.Is(err, protocol.ErrMalformedMessage))

	m, err := protocol.ParseMessage([]byte(`{"type":"update","value":1}`))
	require.NoError(t, err)
	_, _, err = m.Update()
	assert.True(t, errors.Is(err, protocol.ErrMissingHandle))

	m, err = protocol.ParseMessage([]byte(`{"type":"update","handle":1}`))
	require.NoError(t, err)
	_, _, err = m.Update()
	assert.True(t, errors.Is(err, protocol.ErrMissingValue))
}

func TestParseUnknownTypePassesThrough(t *testing.T) {
	m, err := protocol.ParseMessage([]byte(`{"type":"bogus"}`))
	require.NoError(t, err)
	assert.Equal(t, "bogus", m.Type)
}
