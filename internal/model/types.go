package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNoData reports that an upstream answered but carried no usable data
// for the requested symbol. Providers return it for empty payloads,
// missing fields, and non-positive prices alike.
var ErrNoData = errors.New("no data for symbol")

// Category identifies the asset class a provider serves.
type Category string

const (
	CategoryExchangeRate Category = "exchange_rate"
	CategoryCrypto       Category = "crypto"
	CategoryStock        Category = "stock"
	CategoryCommodity    Category = "commodity"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryExchangeRate, CategoryCrypto, CategoryStock, CategoryCommodity:
		return true
	}
	return false
}

// Categories lists every known category in a fixed order.
func Categories() []Category {
	return []Category{CategoryExchangeRate, CategoryCrypto, CategoryStock, CategoryCommodity}
}

// -----------------------------------------------------------------------------
// Quote
// -----------------------------------------------------------------------------

// Quote is a normalized price observation for one symbol at one point in time.
// A Quote with a non-positive price must never exist; use NewQuote.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`         // signed absolute delta
	ChangePercent string          `json:"change_percent"` // formatted, e.g. "0.71%"
	Volume        int64           `json:"volume"`         // 0 when the upstream has none
	Source        string          `json:"source"`         // provider tag, e.g. "binance"
	RetrievedAt   time.Time       `json:"retrieved_at"`
}

// NewQuote builds a validated Quote. A zero or negative price is absence of
// data, never a valid quote, so it yields ErrNoData. Callers may fill Change,
// ChangePercent and Volume on the returned value before sharing it.
func NewQuote(symbol, source string, price decimal.Decimal) (Quote, error) {
	if symbol == "" {
		return Quote{}, errors.New("quote symbol is required")
	}
	if source == "" {
		return Quote{}, errors.New("quote source is required")
	}
	if !price.IsPositive() {
		return Quote{}, fmt.Errorf("%w: %s priced %s by %s", ErrNoData, symbol, price, source)
	}

	return Quote{
		Symbol:        symbol,
		Price:         price,
		ChangePercent: "0.00%",
		Source:        source,
		RetrievedAt:   time.Now().UTC(),
	}, nil
}

// -----------------------------------------------------------------------------
// MarketSummary
// -----------------------------------------------------------------------------

// MarketSummary is a point-in-time snapshot across all asset categories.
// It is assembled once per aggregation call and never mutated afterwards.
type MarketSummary struct {
	ID              uuid.UUID                  `json:"id"`
	Timestamp       time.Time                  `json:"timestamp"`
	ExchangeRate    *decimal.Decimal           `json:"exchange_rate"` // BRL per USD, nil when unresolved
	CryptoPrices    map[string]decimal.Decimal `json:"crypto_prices"`
	StockPrices     map[string]Quote           `json:"stock_prices"`
	CommodityPrices map[string]decimal.Decimal `json:"commodity_prices"`
	SourcesUsed     []string                   `json:"sources_used"` // one tag per resolved quote, order irrelevant
}

// NewMarketSummary creates an empty summary with a fresh ID and timestamp.
func NewMarketSummary() MarketSummary {
	return MarketSummary{
		ID:              uuid.New(),
		Timestamp:       time.Now().UTC(),
		CryptoPrices:    make(map[string]decimal.Decimal),
		StockPrices:     make(map[string]Quote),
		CommodityPrices: make(map[string]decimal.Decimal),
	}
}

// QuoteCount returns the number of resolved quotes across all categories,
// counting the exchange rate as one when present.
func (s MarketSummary) QuoteCount() int {
	n := len(s.CryptoPrices) + len(s.StockPrices) + len(s.CommodityPrices)
	if s.ExchangeRate != nil {
		n++
	}
	return n
}
