// Package transport provides the HTTP client shared by all upstream providers.
//
// Behavior:
//   - One GET per attempt with a per-client timeout and a browser-like User-Agent
//   - HTTP 429 retried up to a bound with a fixed per-client backoff
//   - Any other non-200 status or network failure fails immediately, no retry
//
// Call sites choose a short backoff (exchange rate, crypto) or a long one
// (equity and commodity market data) when constructing their client.
package transport
