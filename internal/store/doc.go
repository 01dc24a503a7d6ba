// Package store provides the SQLite-backed local mirror of the remote catalog.
//
// The store is the only shared mutable resource in reelsync. It exposes:
//   - Query: scoped reads over a single table (Scope + columns + order)
//   - Apply: a batch of typed row operations (insert, upsert, update, delete)
//     committed in ONE transaction, all-or-nothing
//   - Subscribe: change notifications keyed by logical resource URI, emitted
//     once per affected URI after a batch commits
//   - Entity helpers: nested upserts by remote id (users, people, movies,
//     shows, seasons, episodes) and activity timestamps in the settings table
//   - Run journal: one row per action execution, written idempotently, read
//     back by status and crash recovery
//
// # Critical Patterns
//
// Surrogate keys are stable: every table has an INTEGER PRIMARY KEY `id`
// that reconciliation preserves. Rows correlate with the catalog through
// `trakt_id` (or `username` for users) which is UNIQUE.
//
// A batch never spans transactions. Observers never see a scope half-updated.
//
// Pending local edits live in `pending_*` columns. Reconciliation reads them
// to avoid clobbering unsynced user actions.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - MaxOpenConns=1: SQLite serializes writers; one connection avoids SQLITE_BUSY
package store
