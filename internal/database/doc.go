// Package database provides connection pool management for PostgreSQL.
//
// The gatherer persists market snapshots and their per-symbol quote rows.
// Persistence is optional; callers connect only when the database section
// of the config is enabled.
package database
