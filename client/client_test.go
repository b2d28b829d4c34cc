package client_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobnicators/tweaklib/api"
	"github.com/frobnicators/tweaklib/client"
	"github.com/frobnicators/tweaklib/registry"
	"github.com/frobnicators/tweaklib/server"
)

func startServer(t *testing.T) *server.Server {
	t.Helper()
	cfg := server.DefaultConfig()
	cfg.Port = 0
	s, err := server.NewServer(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Shutdown() })
	return s
}

func TestDialSetAndFollow(t *testing.T) {
	s := startServer(t)
	var (
		n    int
		gain float32
		name = "init"
	)
	hn := s.Registry().RegisterInt("n", &n)
	s.Registry().RegisterFloat("gain", &gain)
	s.Registry().RegisterString("name", &name)
	s.Registry().SetDescription(hn, "counter")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := client.Dial(ctx, s.Addr().String(), client.Config{})
	require.NoError(t, err)
	defer c.Close()

	vars := c.Vars()
	require.Len(t, vars, 3)
	assert.Equal(t, "n", vars[0].Name)
	require.NotNil(t, vars[0].Description)
	assert.Equal(t, "counter", *vars[0].Description)
	assert.Equal(t, registry.Float, vars[1].Datatype)
	assert.Equal(t, `"init"`, string(vars[2].Value))

	require.NoError(t, c.SetByName("n", "17"))
	require.NoError(t, c.SetByName("gain", "0.5"))
	require.NoError(t, c.SetByName("name", "hello"))
	assert.True(t, errors.Is(c.SetByName("missing", "1"), api.ErrNotFound))
	assert.Error(t, c.SetByName("n", "x"))

	require.Eventually(t, func() bool {
		s.Registry().Lock()
		defer s.Registry().Unlock()
		return n == 17 && gain == 0.5 && name == "hello"
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.RequestRefresh(hn))
	changes, err := c.Next(ctx)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, uint64(hn), changes[0].Handle)
	v, ok := c.Find("n")
	require.True(t, ok)
	assert.Equal(t, "17", string(v.Value))
}

func TestNextHonoursContext(t *testing.T) {
	s := startServer(t)
	c, err := client.Dial(context.Background(), "ws://"+s.Addr().String(), client.Config{})
	require.NoError(t, err)
	defer c.Close()
	assert.Empty(t, c.Vars())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Next(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestParseValue(t *testing.T) {
	v, err := client.ParseValue(registry.Integer, "3")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = client.ParseValue(registry.Double, "2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = client.ParseValue(registry.Vector, "1")
	assert.True(t, errors.Is(err, api.ErrNotSupported))
}

func TestDialEmptyAddress(t *testing.T) {
	_, err := client.Dial(context.Background(), "", client.Config{})
	assert.True(t, errors.Is(err, api.ErrInvalidArgument))
}
