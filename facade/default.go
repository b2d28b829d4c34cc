// File: facade/default.go
// License: Apache-2.0

package facade

import (
	"github.com/frobnicators/tweaklib/internal/logging"
	"github.com/frobnicators/tweaklib/registry"
)

var std = New()

// Default returns the process-wide instance used by the package functions.
func Default() *Tweaklib { return std }

func Init(port int, address string) error { return std.Init(port, address) }
func Cleanup() error                      { return std.Cleanup() }
func SetOutput(sink logging.Sink)         { std.SetOutput(sink) }

func RegisterInt(name string, ptr *int) registry.Handle        { return std.RegisterInt(name, ptr) }
func RegisterFloat(name string, ptr *float32) registry.Handle  { return std.RegisterFloat(name, ptr) }
func RegisterDouble(name string, ptr *float64) registry.Handle { return std.RegisterDouble(name, ptr) }
func RegisterString(name string, ptr *string) registry.Handle  { return std.RegisterString(name, ptr) }
func SetTrigger(h registry.Handle, fn registry.Trigger)        { std.SetTrigger(h, fn) }
func SetDescription(h registry.Handle, description string)     { std.SetDescription(h, description) }
func SetOptions(h registry.Handle, options string)             { std.SetOptions(h, options) }
func RequestRefresh(handles ...registry.Handle) error          { return std.RequestRefresh(handles...) }
func Lock()                                                    { std.Lock() }
func Unlock()                                                  { std.Unlock() }
