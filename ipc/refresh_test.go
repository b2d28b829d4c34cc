package ipc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobnicators/tweaklib/ipc"
)

func TestHandlesRoundTrip(t *testing.T) {
	in := []uint64{1, 2, 1<<32 | 5}
	out, err := ipc.DecodeHandles(ipc.EncodeHandles(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = ipc.DecodeHandles([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestSplitHandles(t *testing.T) {
	handles := make([]uint64, 10)
	for i := range handles {
		handles[i] = uint64(i + 1)
	}
	parts := ipc.SplitHandles(handles, 32) // 4 per payload
	require.Len(t, parts, 3)

	var all []uint64
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 32)
		hs, err := ipc.DecodeHandles(p)
		require.NoError(t, err)
		all = append(all, hs...)
	}
	assert.Equal(t, handles, all)
	assert.Empty(t, ipc.SplitHandles(nil, 32))
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "shutdown", ipc.Shutdown.String())
	assert.Equal(t, "refresh", ipc.Refresh.String())
	assert.Equal(t, "command(7)", ipc.Command(7).String())
}
