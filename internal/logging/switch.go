// File: internal/logging/switch.go
// License: Apache-2.0

package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type coreBox struct{ zapcore.Core }

// Switch hands out loggers whose output can be redirected after they were
// created. Loggers derived with Named or With follow every later Set.
type Switch struct {
	target atomic.Pointer[coreBox]
}

// NewSwitch starts out writing to l, or nowhere when l is nil.
func NewSwitch(l *zap.Logger) *Switch {
	s := &Switch{}
	s.Set(l)
	return s
}

// Set redirects every logger from s to the core of l. Names and fields
// already attached to those loggers are kept; l's own name is not.
func (s *Switch) Set(l *zap.Logger) {
	core := zapcore.NewNopCore()
	if l != nil {
		core = l.Core()
	}
	s.target.Store(&coreBox{core})
}

// Logger returns a logger that writes to the current target.
func (s *Switch) Logger() *zap.Logger {
	return zap.New(&switchCore{sw: s})
}

type switchCore struct {
	sw     *Switch
	fields []zapcore.Field
}

func (c *switchCore) current() zapcore.Core { return c.sw.target.Load().Core }

func (c *switchCore) Enabled(l zapcore.Level) bool { return c.current().Enabled(l) }

func (c *switchCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &switchCore{sw: c.sw, fields: merged}
}

func (c *switchCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *switchCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	core := c.current()
	if len(c.fields) > 0 {
		core = core.With(c.fields)
	}
	return core.Write(ent, fields)
}

func (c *switchCore) Sync() error { return c.current().Sync() }
