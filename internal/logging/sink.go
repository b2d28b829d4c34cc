// File: internal/logging/sink.go
// License: Apache-2.0

package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink receives one formatted log line, without trailing newline.
type Sink func(line string)

type sinkWriter struct {
	mu   sync.Mutex
	sink Sink
}

func (w *sinkWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	w.mu.Lock()
	w.sink(line)
	w.mu.Unlock()
	return len(p), nil
}

func (w *sinkWriter) Sync() error { return nil }

// NewSinkLogger returns a logger that renders each entry with the console
// encoder and passes it to sink. A nil sink yields a no-op logger.
func NewSinkLogger(sink Sink, level zapcore.Level) *zap.Logger {
	if sink == nil {
		return zap.NewNop()
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		&sinkWriter{sink: sink},
		level,
	)
	return zap.New(core)
}
