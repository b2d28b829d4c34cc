// Package registry
// License: Apache-2.0
//
// Variable registry: the set of named application variables exposed for live
// inspection and mutation.
//
// Variables are addressed by opaque handles. A handle packs a slot index and a
// generation. Generations come from a registry-wide epoch that advances
// whenever a freed slot is reused, so handles only ever grow and a stale
// handle never resolves to whatever is stored in its slot later.
//
// Concurrency contract:
//   - The registry owns one value lock (Lock/Unlock). Updates arriving over the
//     wire hold it only while the new value is written; the update trigger runs
//     after it is released. Serialization holds it only while copying a value.
//   - Application code that writes registered variables directly should hold
//     the same lock if it wants to avoid torn reads. This is not enforced.
package registry
