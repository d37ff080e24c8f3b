// quotes fetches market data once and prints it as indented JSON.
// Usage:
//
//	go run ./cmd/quotes -summary
//	go run ./cmd/quotes -category crypto -symbol BTC
//	go run ./cmd/quotes -category stock -symbol PETR4.SA
//
// Without -config it runs on built-in defaults: public endpoints, demo
// API keys and the standard symbol set.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/chain"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/config"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/provider"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/summary"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/transport"
)

func main() {
	configPath := flag.String("config", "", "optional path to config file")
	summaryFlag := flag.Bool("summary", false, "fetch one full market summary")
	category := flag.String("category", "crypto", "quote category (exchange_rate, crypto, stock, commodity)")
	symbol := flag.String("symbol", "", "symbol to fetch, e.g. BTC or PETR4.SA")
	flag.Parse()

	_ = godotenv.Load()

	// Provider retries and fallbacks log to stderr so stdout stays
	// pipeable JSON.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadWithDefaults(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	chains := buildChains(cfg, logger)

	if *summaryFlag {
		agg := summary.New(
			summary.Config{
				RateSymbol:  cfg.Summary.RateSymbol,
				Crypto:      cfg.Summary.CryptoSymbols,
				Stocks:      cfg.Summary.StockSymbols,
				Commodities: cfg.Summary.CommoditySymbols,
			},
			chains[model.CategoryExchangeRate],
			chain.NewBatch(chains[model.CategoryCrypto], cfg.Summary.PacingDelay, logger),
			chain.NewBatch(chains[model.CategoryStock], cfg.Summary.PacingDelay, logger),
			chain.NewBatch(chains[model.CategoryCommodity], cfg.Summary.PacingDelay, logger),
			logger,
		)
		printJSON(agg.Summarize(ctx))
		return
	}

	if *symbol == "" {
		fmt.Fprintln(os.Stderr, "usage: quotes -summary | quotes -category <category> -symbol <symbol>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cat := model.Category(*category)
	if !cat.Valid() {
		log.Fatalf("unknown category %q", *category)
	}

	q, ok := chains[cat].Resolve(ctx, *symbol)
	if !ok {
		log.Fatalf("no data for %s %s", cat, *symbol)
	}
	printJSON(q)
}

// buildChains wires the one-shot chains. Unlike the service, the CLI
// shares two transport clients across providers; they carry no request
// state so the short-lived process loses nothing.
func buildChains(cfg *config.GathererConfig, logger *slog.Logger) map[model.Category]*chain.Chain {
	p := cfg.Providers

	short := transport.NewClient(
		transport.WithTimeout(p.Timeout),
		transport.WithRetries(p.MaxRetries, transport.DefaultBackoff),
		transport.WithLogger(logger),
	)
	long := transport.NewClient(
		transport.WithTimeout(p.Timeout),
		transport.WithRetries(p.MaxRetries, transport.LongBackoff),
		transport.WithLogger(logger),
	)

	return map[model.Category]*chain.Chain{
		model.CategoryExchangeRate: chain.New(model.CategoryExchangeRate, []provider.Provider{
			provider.NewExchangeRateAPI(p.ExchangeRateURL, "USD", 1, short, logger),
			provider.NewFixer(p.FixerURL, p.FixerKey, "USD", 2, short, logger),
			provider.NewFixedRate(provider.DefaultUSDBRLRate, 3),
		}, logger),
		model.CategoryCrypto: chain.New(model.CategoryCrypto, []provider.Provider{
			provider.NewBinance(p.BinanceURL, 1, short, logger),
		}, logger),
		model.CategoryStock: chain.New(model.CategoryStock, []provider.Provider{
			provider.NewAlphaVantage(p.AlphaVantageURL, p.AlphaVantageKey, 1, long, logger),
			provider.NewYahoo(p.YahooURL, 2, long, logger),
			provider.NewSimulatedStocks(9),
		}, logger),
		model.CategoryCommodity: chain.New(model.CategoryCommodity, []provider.Provider{
			provider.NewTwelveData(p.TwelveDataURL, p.TwelveDataKey, 1, long, logger),
			provider.NewSimulatedCommodities(9),
		}, logger),
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode response: %v", err)
	}
	fmt.Println(string(out))
}
