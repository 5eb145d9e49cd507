// Package store persists per-user identification codes.
//
// # Record model
//
// Each user owns one Record: the current code plus every distinct code the
// user has ever bound, in bind order. Records are created on the first
// successful bind and never deleted; there is no unbind operation.
//
// # Backends
//
// Three implementations of the Store interface:
//
//   - FileStore: single JSON document, load-mutate-save per call under a
//     per-instance mutex. The default backend. Read failures degrade to an
//     empty store; write failures are reported.
//   - SQLiteStore: one row per user plus history rows, WAL mode. Useful
//     when several components share the database file.
//   - MemoryStore: map behind a mutex, for tests and ephemeral runs.
//
// # Concurrency
//
// All backends are safe for concurrent use within one process. FileStore
// serializes whole load-save cycles, so interleaved binds for different
// users cannot overwrite each other. Cross-process writers on the same
// file are last-writer-wins; use SQLiteStore if that matters.
//
// # Errors
//
//   - ErrNotBound: the user has never bound a code.
//
// All methods accept context.Context for interface symmetry with the
// SQLite backend, which honors cancellation on queries.
package store
