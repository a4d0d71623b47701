// Package store provides SQLite-backed run history.
//
// Every scenario run is one row in the runs table holding the scenario name,
// outcome, timing, the initial session as canonical JSON with its digest, and
// the full report document. Rows are written once and never updated.
//
// # Critical Patterns
//
// Idempotent writes:
//   - Run IDs are the primary key; writing the same run twice is a no-op
//
// Deterministic listing:
//   - All listings use ORDER BY started_at DESC, id DESC COLLATE BINARY
//   - UUIDv7 run IDs break ties in start order
//
// # Database Configuration
//
// Connection settings are go-sqlite3 DSN parameters (WAL, synchronous=NORMAL,
// a 5 second busy timeout, foreign keys). The schema is versioned through
// PRAGMA user_version; Open applies any newer migrations in order.
package store
