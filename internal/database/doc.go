// Package database provides SQLite-based persistence for trap hits.
//
// This package implements the HitDB, an append-only log of every trap
// request. It survives restarts so the report command can summarize
// crawler activity long after the serving process exited.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// Writes go through an asynchronous buffered writer so a slow disk never
// delays a trap response; the delay a crawler experiences must come only
// from the configured delay policy.
package database
