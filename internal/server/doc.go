// Package server exposes the gathered market data over HTTP.
//
// Routes:
//
//	GET /health                            liveness, version, uptime
//	GET /api/v1/summary/latest             newest snapshot (memory, cache, store)
//	GET /api/v1/quote/{category}/{symbol}  single quote (cache, then live chain)
//	GET /api/v1/stats                      collector and stream counters
//
// All responses are JSON. The server reads but never schedules; snapshot
// assembly belongs to the collector.
package server
