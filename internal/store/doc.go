// Package store provides the SQLite-backed evaluation log.
//
// The store is an append-only log with:
//   - Runs: one row per routing session, keyed by a UUIDv7 id and
//     stamped with the fingerprint of the graph it routed through
//   - Evaluations: one row per guard evaluated during the run
//
// # Critical Patterns
//
// Logical time:
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//   - A run records the last seq seen when it started so a later run can
//     resume the clock with engine.NewClockAt
//
// Deterministic query results:
//   - Every read has an ORDER BY over deterministic keys
//   - Evaluations: ORDER BY seq ASC
//   - Runs: ORDER BY started_at_seq ASC, id COLLATE BINARY ASC
//
// Idempotent writes:
//   - Evaluations are keyed by (run_id, seq); re-recording the same
//     evaluation is silently ignored
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - Single connection: SQLite supports one writer at a time
package store
