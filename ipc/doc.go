// File: ipc/doc.go
// License: Apache-2.0

// Package ipc provides the per-worker control channel.
//
// A Channel carries tagged commands with an owned payload from any goroutine
// to exactly one consumer goroutine. Messages are delivered whole and in
// order; payloads above the configured cap are refused at Push time, so a
// message is never truncated.
package ipc
