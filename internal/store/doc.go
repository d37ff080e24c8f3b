// Package store persists market snapshots to PostgreSQL.
//
// Two tables back the store:
//
//	market_snapshots (snapshot_id UUID PK, created_at TIMESTAMPTZ,
//	                  exchange_rate NUMERIC NULL, sources TEXT[])
//	snapshot_quotes  (snapshot_id UUID, category TEXT, symbol TEXT,
//	                  price NUMERIC, change NUMERIC NULL,
//	                  change_percent TEXT NULL, volume BIGINT NULL,
//	                  source TEXT NULL, retrieved_at TIMESTAMPTZ,
//	                  PRIMARY KEY (snapshot_id, category, symbol))
//
// A snapshot and its quote rows go out in a single batch. Replayed
// snapshots are absorbed by ON CONFLICT DO NOTHING, so saving the same
// summary twice is harmless.
package store
