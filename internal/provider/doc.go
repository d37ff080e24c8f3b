// Package provider implements one integration per upstream market data source.
//
// Sources:
//   - exchangerate-api, fixer, fixed-rate: USD exchange rates
//   - binance: cryptocurrency prices
//   - alphavantage, yahoo: equity quotes
//   - twelvedata: commodity prices
//   - simulated: deterministic last-resort quotes for stocks and commodities
//
// Every Fetch keeps transport and parse failures inside the provider: it
// logs them at WARN and returns an error value the fallback chain treats
// as absence. Only the chain escalates to ERROR, on total exhaustion.
package provider
