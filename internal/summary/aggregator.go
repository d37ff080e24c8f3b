// Package summary composes per-category fetch results into market
// summary snapshots.
package summary

import (
	"context"
	"log/slog"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/chain"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
)

// Config lists the symbols each snapshot covers.
type Config struct {
	RateSymbol  string   // target currency of the exchange rate, e.g. "BRL"
	Crypto      []string // asset codes quoted against USDT
	Stocks      []string // B3 tickers plus the Bovespa index
	Commodities []string // futures tickers
}

// DefaultConfig returns the standard snapshot coverage.
func DefaultConfig() Config {
	return Config{
		RateSymbol:  "BRL",
		Crypto:      []string{"BTC", "ETH", "BNB", "ADA", "SOL"},
		Stocks:      []string{"PETR4.SA", "VALE3.SA", "^BVSP"},
		Commodities: []string{"GC=F", "SI=F", "CL=F"},
	}
}

// Aggregator walks the four categories in sequence and assembles one
// MarketSummary per call. Categories never short-circuit each other: a
// fully failed category leaves its entry empty and the walk continues.
type Aggregator struct {
	cfg         Config
	rates       *chain.Chain
	crypto      *chain.Batch
	stocks      *chain.Batch
	commodities *chain.Batch
	logger      *slog.Logger
}

// New creates an aggregator over the per-category chains.
func New(cfg Config, rates *chain.Chain, crypto, stocks, commodities *chain.Batch, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Aggregator{
		cfg:         cfg,
		rates:       rates,
		crypto:      crypto,
		stocks:      stocks,
		commodities: commodities,
		logger:      logger,
	}
}

// Summarize fetches the exchange rate and the three symbol batches and
// returns a fresh snapshot. The result is complete under partial failure;
// unresolved entries are simply missing.
func (a *Aggregator) Summarize(ctx context.Context) model.MarketSummary {
	s := model.NewMarketSummary()

	if q, ok := a.rates.Resolve(ctx, a.cfg.RateSymbol); ok {
		rate := q.Price
		s.ExchangeRate = &rate
		s.SourcesUsed = append(s.SourcesUsed, q.Source)
	}

	for symbol, q := range a.crypto.FetchAll(ctx, a.cfg.Crypto) {
		s.CryptoPrices[symbol] = q.Price
		s.SourcesUsed = append(s.SourcesUsed, q.Source)
	}

	for symbol, q := range a.stocks.FetchAll(ctx, a.cfg.Stocks) {
		s.StockPrices[symbol] = q
		s.SourcesUsed = append(s.SourcesUsed, q.Source)
	}

	for symbol, q := range a.commodities.FetchAll(ctx, a.cfg.Commodities) {
		s.CommodityPrices[symbol] = q.Price
		s.SourcesUsed = append(s.SourcesUsed, q.Source)
	}

	a.logger.Info("summary assembled",
		"id", s.ID,
		"quotes", s.QuoteCount(),
		"requested", 1+len(a.cfg.Crypto)+len(a.cfg.Stocks)+len(a.cfg.Commodities),
	)

	return s
}
