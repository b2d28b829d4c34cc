// Package api
// License: Apache-2.0
//
// Common error types shared by the tweaklib packages.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrClosed            = fmt.Errorf("resource is closed")
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrResourceExhausted = fmt.Errorf("resource exhausted")
	ErrNotSupported      = fmt.Errorf("operation not supported")
	ErrAlreadyRunning    = fmt.Errorf("already running")
	ErrNotFound          = fmt.Errorf("resource not found")
)

// ErrorCode classifies a failure by how far it propagates.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	// ErrCodeSubsystem disables the component that hit it (listener setup, accept).
	ErrCodeSubsystem
	// ErrCodeConnection terminates a single connection.
	ErrCodeConnection
	// ErrCodeProtocol is logged and ignored; the connection stays usable.
	ErrCodeProtocol
	// ErrCodeAdmission is an expected refusal (slot table full).
	ErrCodeAdmission
	// ErrCodeIPC marks a control channel that can no longer be trusted.
	ErrCodeIPC
)

// String returns the lowercase name used in log fields and metric keys.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeSubsystem:
		return "subsystem"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeProtocol:
		return "protocol"
	case ErrCodeAdmission:
		return "admission"
	case ErrCodeIPC:
		return "ipc"
	}
	return "unknown"
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (context: %+v)", msg, e.Context)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap creates a structured error around cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	e := NewError(code, message)
	e.Err = cause
	return e
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
