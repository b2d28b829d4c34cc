package ipc_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobnicators/tweaklib/api"
	"github.com/frobnicators/tweaklib/ipc"
)

func TestPushFetchEverySize(t *testing.T) {
	const limit = 64
	ch := ipc.NewChannel(limit)
	ctx := context.Background()

	for n := 0; n <= limit; n++ {
		payload := bytes.Repeat([]byte{byte(n)}, n)
		require.NoError(t, ch.Push(ipc.Testing, payload))

		cmd, got, err := ch.Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, ipc.Testing, cmd)
		assert.Len(t, got, n)
		if n > 0 {
			assert.Equal(t, payload, got)
		}
		assert.Equal(t, 0, ch.Len(), "no residue after size %d", n)
	}
}

func TestOversizedPayloadRejected(t *testing.T) {
	ch := ipc.NewChannel(8)
	err := ch.Push(ipc.Refresh, make([]byte, 9))
	assert.True(t, errors.Is(err, ipc.ErrPayloadTooLarge))
	assert.Equal(t, 0, ch.Len())

	_, _, ok := ch.TryFetch()
	assert.False(t, ok)
}

func TestPayloadIsCopied(t *testing.T) {
	ch := ipc.NewChannel(0)
	buf := []byte("abc")
	require.NoError(t, ch.Push(ipc.Testing, buf))
	buf[0] = 'z'

	_, got, ok := ch.TryFetch()
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))
}

func TestOrderPreserved(t *testing.T) {
	ch := ipc.NewChannel(0)
	for _, c := range []ipc.Command{ipc.Testing, ipc.Refresh, ipc.Shutdown} {
		require.NoError(t, ch.Push(c, nil))
	}
	var got []ipc.Command
	for {
		cmd, _, ok := ch.TryFetch()
		if !ok {
			break
		}
		got = append(got, cmd)
	}
	assert.Equal(t, []ipc.Command{ipc.Testing, ipc.Refresh, ipc.Shutdown}, got)
}

func TestFetchBlocksUntilPush(t *testing.T) {
	ch := ipc.NewChannel(0)
	done := make(chan ipc.Command, 1)
	go func() {
		cmd, _, err := ch.Fetch(context.Background())
		if err == nil {
			done <- cmd
		}
	}()

	select {
	case <-done:
		t.Fatal("fetch returned before push")
	case <-time.After(20 * time.Millisecond):
	}
	require.NoError(t, ch.Push(ipc.Shutdown, nil))

	select {
	case cmd := <-done:
		assert.Equal(t, ipc.Shutdown, cmd)
	case <-time.After(time.Second):
		t.Fatal("fetch did not wake up")
	}
}

func TestCloseDrainsThenFails(t *testing.T) {
	ch := ipc.NewChannel(0)
	require.NoError(t, ch.Push(ipc.Testing, []byte("x")))
	ch.Close()
	ch.Close()

	assert.True(t, errors.Is(ch.Push(ipc.Testing, nil), api.ErrClosed))

	cmd, _, err := ch.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ipc.Testing, cmd)

	_, _, err = ch.Fetch(context.Background())
	assert.True(t, errors.Is(err, ipc.ErrClosed))
}

func TestFetchHonoursContext(t *testing.T) {
	ch := ipc.NewChannel(0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, _, err := ch.Fetch(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestConcurrentProducers(t *testing.T) {
	ch := ipc.NewChannel(0)
	const producers, each = 8, 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				_ = ch.Push(ipc.Testing, []byte{1})
			}
		}()
	}

	got := 0
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for got < producers*each {
		_, _, err := ch.Fetch(ctx)
		require.NoError(t, err)
		got++
	}
	wg.Wait()
	assert.Equal(t, 0, ch.Len())
}
