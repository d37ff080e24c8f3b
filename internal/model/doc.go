// Package model defines shared data types used across the market data service.
//
// Conventions:
//   - Prices: decimal.Decimal (most upstreams deliver prices as JSON strings)
//   - Timestamps: time.Time in UTC
//   - IDs: plain string symbols for quotes, uuid.UUID for summary snapshots
package model
