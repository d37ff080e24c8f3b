// Package stream maintains a live Binance miniTicker WebSocket feed.
//
// Ticks are written through to the quote cache so API reads between
// collector runs see near-real-time crypto prices. The feed is a cache
// warmer only; snapshot assembly never depends on it.
package stream
