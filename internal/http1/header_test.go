package http1

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderListAddOverwrites(t *testing.T) {
	var l HeaderList
	l.Add("A", "1")
	l.Add("B", "2")
	l.Add("A", "3")

	require.Equal(t, 2, l.Len())
	assert.Equal(t, []Header{{"A", "3"}, {"B", "2"}}, l.All())
}

func TestHeaderListCaseSensitive(t *testing.T) {
	var l HeaderList
	l.Add("Upgrade", "websocket")
	_, ok := l.Get("upgrade")
	assert.False(t, ok)

	v, ok := l.GetFold("upgrade")
	assert.True(t, ok)
	assert.Equal(t, "websocket", v)
}

func TestHeaderListDeleteSwapsLast(t *testing.T) {
	var l HeaderList
	for _, n := range []string{"A", "B", "C", "D"} {
		l.Add(n, n)
	}
	assert.True(t, l.Del("B"))
	assert.False(t, l.Del("B"))
	assert.Equal(t, []Header{{"A", "A"}, {"D", "D"}, {"C", "C"}}, l.All())
}

func TestHeaderListWriteTo(t *testing.T) {
	var l HeaderList
	l.Add("Server", "x")
	l.Add("Connection", "keep-alive")
	var buf bytes.Buffer
	_, err := l.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Server: x\r\nConnection: keep-alive\r\n", buf.String())
}
