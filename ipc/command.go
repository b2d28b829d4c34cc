// File: ipc/command.go
// License: Apache-2.0

package ipc

import "fmt"

// Command tags a message on a Channel.
type Command uint8

const (
	// None reports a message that carried nothing actionable, or one the
	// receiving side already handled.
	None Command = 0
	// Handled is returned by workers for commands processed internally.
	Handled Command = None
	// Shutdown asks the receiver to leave its loop.
	Shutdown Command = 1
	// Testing is a pass-through command used by tests.
	Testing Command = 2
	// Refresh asks a connection to push the variables listed in the
	// payload (see EncodeHandles). An empty payload means all variables.
	Refresh Command = 128
)

func (c Command) String() string {
	switch c {
	case None:
		return "none"
	case Shutdown:
		return "shutdown"
	case Testing:
		return "testing"
	case Refresh:
		return "refresh"
	}
	return fmt.Sprintf("command(%d)", uint8(c))
}
