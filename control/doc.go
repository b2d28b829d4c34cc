// Package control
// License: Apache-2.0
//
// Runtime metrics and debug introspection for a running tweaklib server.
//
// Provides concurrent-safe primitives:
//   - Named counters (connections, frames, updates, IPC failures)
//   - Probe registration evaluated lazily on DumpState
//
// Failures that the server cannot recover from on its own, such as a broken
// worker control channel, are surfaced here as counters so they can be
// monitored instead of only appearing in the log.
package control
