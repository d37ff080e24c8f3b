// Package collector drives periodic market snapshot assembly.
//
// A cron schedule triggers one summary per tick; each summary is handed
// to the configured sinks (cache, store, publisher) and kept in memory
// for the HTTP API. Ticks that arrive while a run is still in progress
// are skipped rather than queued.
package collector
