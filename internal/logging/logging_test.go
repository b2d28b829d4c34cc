package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("bogus"))
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		l, err := NewLogger(Config{Level: "warn", Format: format})
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	}
}

func TestSinkLogger(t *testing.T) {
	var lines []string
	l := NewSinkLogger(func(s string) { lines = append(lines, s) }, zapcore.InfoLevel)
	l.Debug("hidden")
	l.Named("conn").Info("accepted", zap.Int("slot", 2))

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[0], "conn")
	assert.Contains(t, lines[0], "accepted")
	assert.Contains(t, lines[0], `"slot": 2`)
	assert.NotContains(t, lines[0], "\n")
}

func TestNilSinkIsSilent(t *testing.T) {
	l := NewSinkLogger(nil, zapcore.DebugLevel)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestSwitchRedirectsExistingLoggers(t *testing.T) {
	sw := NewSwitch(nil)
	conn := sw.Logger().Named("conn").With(zap.Int("slot", 1))
	conn.Info("before any sink")

	var lines []string
	sw.Set(NewSinkLogger(func(s string) { lines = append(lines, s) }, zapcore.InfoLevel))
	conn.Debug("below level")
	conn.Info("after", zap.String("peer", "p"))

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "conn")
	assert.Contains(t, lines[0], `"slot": 1`)
	assert.Contains(t, lines[0], `"peer": "p"`)

	sw.Set(nil)
	conn.Error("silenced")
	assert.Len(t, lines, 1)
}
