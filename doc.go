// Package relay coordinates a fixed pool of workers taking strict
// round-robin turns reading a shared cyclic character sequence.
//
// Each worker registers once at startup and receives a stable logical index
// in arrival order; no worker proceeds until all have registered. Workers
// then take turns in index order, forever: on its turn a worker reads a
// fixed number of characters from the shared cursor (wrapping around the
// sequence end as needed), emits a Turn record, and hands the turn to the
// next index. Turn order is total and exactly cyclic — 0, 1, ..., N-1, 0,
// ... — with no turn skipped, duplicated, or executed out of order.
//
// Constructor
//   - New(ctx, opts ...Option): options-based constructor. WithSequence is
//     required; everything else has a default.
//
// Defaults
// Unless overridden, the following defaults apply to a newly created Relay:
//   - CharCount: 1
//   - Workers: 1
//   - TurnsBufferSize: 64
//   - StartImmediately: false (explicit Start is required)
//   - Metrics: no-op provider
//   - Logger: no-op logger
//
// Channel lifecycle
// The Relay owns the Turns channel. It stays open while workers run and is
// closed by the Relay once shutdown completes, so ranging over Turns
// terminates cleanly. Shutdown happens when the Start context is canceled
// or Close is called; cancellation is the only exit path and never alters
// turn order.
//
// Cursor semantics
// The shared cursor advances by CharCount per turn, normalized modulo the
// sequence length, so it stays bounded even when CharCount exceeds the
// sequence length (reads then wrap the sequence multiple times).
package relay
