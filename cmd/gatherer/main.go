package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/cache"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/chain"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/collector"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/config"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/database"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/provider"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/publish"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/server"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/store"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/stream"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/summary"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/transport"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/gatherer.yaml", "path to config file")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "text", "log format (text or json)")
	flag.Parse()

	// .env files carry provider keys and DB credentials in development;
	// they must be in the environment before the config file is expanded.
	_ = godotenv.Load()

	logger := newLogger(*logLevel, *logFormat)
	slog.SetDefault(logger)

	logger.Info("starting gatherer",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"schedule", cfg.Collector.Schedule,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	chains := buildChains(cfg, logger)
	agg := buildAggregator(cfg, chains, logger)

	var quoteCache *cache.Cache
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		quoteCache = cache.New(client, cache.TTLs{
			Crypto:  cfg.Redis.CryptoTTL,
			Stock:   cfg.Redis.StockTTL,
			Summary: cfg.Redis.SummaryTTL,
		}, logger)

		if err := quoteCache.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, caching degraded", "addr", cfg.Redis.Addr, "error", err)
		} else {
			logger.Info("redis connected", "addr", cfg.Redis.Addr)
		}
	}

	var snapshots *store.Store
	if cfg.Database.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Postgres.Host,
			"port", cfg.Database.Postgres.Port,
			"database", cfg.Database.Postgres.Name,
		)

		pool, err := database.Connect(ctx, cfg.Database.Postgres)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		snapshots = store.New(pool, logger)
		logger.Info("database connected")
	}

	var publisher *publish.Publisher
	if cfg.Kafka.Enabled {
		publisher = publish.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer publisher.Close()
		logger.Info("kafka producer ready", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	var sinks []collector.Sink
	if quoteCache != nil {
		sinks = append(sinks, collector.NewSink("redis", quoteCache.PutSummary))
	}
	if snapshots != nil {
		sinks = append(sinks, collector.NewSink("postgres", snapshots.SaveSummary))
	}
	if publisher != nil {
		sinks = append(sinks, collector.NewSink("kafka", publisher.Publish))
	}

	coll := collector.New(cfg.Collector.Schedule, agg, sinks, logger)
	if err := coll.Start(ctx); err != nil {
		logger.Error("failed to start collector", "error", err)
		os.Exit(1)
	}

	var ticks *stream.Stream
	if cfg.Stream.Enabled {
		if quoteCache == nil {
			logger.Warn("stream enabled without redis, tick warming disabled")
		} else {
			ticks = stream.New(stream.Config{
				URL:                cfg.Stream.URL,
				Symbols:            cfg.Stream.Symbols,
				ReconnectBaseDelay: cfg.Stream.ReconnectBaseDelay,
				ReconnectMaxDelay:  cfg.Stream.ReconnectMaxDelay,
				ReadTimeout:        cfg.Stream.ReadTimeout,
			}, quoteCache, logger)

			if err := ticks.Start(ctx); err != nil {
				logger.Error("failed to start stream", "error", err)
				os.Exit(1)
			}
		}
	}

	srvOpts := []server.Option{
		server.WithVersion(version.Version),
		server.WithSummaryProvider(coll),
		server.WithCollectorStats(coll.Stats),
	}
	if quoteCache != nil {
		srvOpts = append(srvOpts, server.WithCache(quoteCache))
	}
	if snapshots != nil {
		srvOpts = append(srvOpts, server.WithSnapshotReader(snapshots, store.ErrNoSnapshot))
	}
	if ticks != nil {
		srvOpts = append(srvOpts, server.WithStreamStats(ticks.Stats))
	}

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, chains, logger, srvOpts...)

	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start http server", "error", err)
		os.Exit(1)
	}

	logger.Info("gatherer running",
		"instance_id", cfg.Instance.ID,
		"addr", srv.Addr(),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", "error", err)
	}
	if ticks != nil {
		if err := ticks.Stop(shutdownCtx); err != nil {
			logger.Warn("stream shutdown", "error", err)
		}
	}
	if err := coll.Stop(shutdownCtx); err != nil {
		logger.Warn("collector shutdown", "error", err)
	}

	logger.Info("gatherer stopped")
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// buildChains assembles the per-category fallback chains. Every provider
// owns its own transport client; the market data endpoints get the longer
// rate-limit backoff they need.
func buildChains(cfg *config.GathererConfig, logger *slog.Logger) map[model.Category]*chain.Chain {
	p := cfg.Providers

	short := func() *transport.Client {
		return transport.NewClient(
			transport.WithTimeout(p.Timeout),
			transport.WithRetries(p.MaxRetries, transport.DefaultBackoff),
			transport.WithLogger(logger),
		)
	}
	long := func(timeout time.Duration) *transport.Client {
		return transport.NewClient(
			transport.WithTimeout(timeout),
			transport.WithRetries(p.MaxRetries, transport.LongBackoff),
			transport.WithLogger(logger),
		)
	}

	rates := chain.New(model.CategoryExchangeRate, []provider.Provider{
		provider.NewExchangeRateAPI(p.ExchangeRateURL, "USD", 1, short(), logger),
		provider.NewFixer(p.FixerURL, p.FixerKey, "USD", 2, short(), logger),
		provider.NewFixedRate(provider.DefaultUSDBRLRate, 3),
	}, logger)

	crypto := chain.New(model.CategoryCrypto, []provider.Provider{
		provider.NewBinance(p.BinanceURL, 1, short(), logger),
	}, logger)

	stocks := chain.New(model.CategoryStock, []provider.Provider{
		provider.NewAlphaVantage(p.AlphaVantageURL, p.AlphaVantageKey, 1, long(p.Timeout), logger),
		provider.NewYahoo(p.YahooURL, 2, long(15*time.Second), logger),
		provider.NewSimulatedStocks(9),
	}, logger)

	commodities := chain.New(model.CategoryCommodity, []provider.Provider{
		provider.NewTwelveData(p.TwelveDataURL, p.TwelveDataKey, 1, long(p.Timeout), logger),
		provider.NewSimulatedCommodities(9),
	}, logger)

	return map[model.Category]*chain.Chain{
		model.CategoryExchangeRate: rates,
		model.CategoryCrypto:       crypto,
		model.CategoryStock:        stocks,
		model.CategoryCommodity:    commodities,
	}
}

func buildAggregator(cfg *config.GathererConfig, chains map[model.Category]*chain.Chain, logger *slog.Logger) *summary.Aggregator {
	return summary.New(
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
}
