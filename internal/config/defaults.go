package config

import "time"

// Default values for optional configuration fields. Provider URLs and
// API keys are left empty here; the provider constructors substitute
// their public endpoints and free-tier keys for empty values.
const (
	DefaultProviderTimeout    = 10 * time.Second
	DefaultMaxRetries         = 3
	DefaultRateSymbol         = "BRL"
	DefaultPacingDelay        = 2 * time.Second
	DefaultSchedule           = "@every 5m"
	DefaultServerAddr         = ":8080"
	DefaultReadTimeout        = 10 * time.Second
	DefaultWriteTimeout       = 15 * time.Second
	DefaultShutdownTimeout    = 10 * time.Second
	DefaultRedisAddr          = "localhost:6379"
	DefaultCryptoTTL          = 60 * time.Second
	DefaultStockTTL           = 5 * time.Minute
	DefaultSummaryTTL         = 10 * time.Minute
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 10
	DefaultMinConns           = 2
	DefaultKafkaTopic         = "market.summaries"
	DefaultStreamURL          = "wss://stream.binance.com:9443"
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second
	DefaultStreamReadTimeout  = 30 * time.Second
)

// Default symbol sets for a market summary.
var (
	DefaultCryptoSymbols    = []string{"BTC", "ETH", "BNB", "ADA", "SOL"}
	DefaultStockSymbols     = []string{"PETR4.SA", "VALE3.SA", "^BVSP"}
	DefaultCommoditySymbols = []string{"GC=F", "SI=F", "CL=F"}
)

func (c *GathererConfig) applyDefaults() {
	// Provider defaults
	if c.Providers.Timeout == 0 {
		c.Providers.Timeout = DefaultProviderTimeout
	}
	if c.Providers.MaxRetries == 0 {
		c.Providers.MaxRetries = DefaultMaxRetries
	}

	// Summary defaults
	if c.Summary.RateSymbol == "" {
		c.Summary.RateSymbol = DefaultRateSymbol
	}
	if len(c.Summary.CryptoSymbols) == 0 {
		c.Summary.CryptoSymbols = append([]string(nil), DefaultCryptoSymbols...)
	}
	if len(c.Summary.StockSymbols) == 0 {
		c.Summary.StockSymbols = append([]string(nil), DefaultStockSymbols...)
	}
	if len(c.Summary.CommoditySymbols) == 0 {
		c.Summary.CommoditySymbols = append([]string(nil), DefaultCommoditySymbols...)
	}
	if c.Summary.PacingDelay == 0 {
		c.Summary.PacingDelay = DefaultPacingDelay
	}

	// Collector defaults
	if c.Collector.Schedule == "" {
		c.Collector.Schedule = DefaultSchedule
	}

	// Server defaults
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Redis defaults
	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}
	if c.Redis.CryptoTTL == 0 {
		c.Redis.CryptoTTL = DefaultCryptoTTL
	}
	if c.Redis.StockTTL == 0 {
		c.Redis.StockTTL = DefaultStockTTL
	}
	if c.Redis.SummaryTTL == 0 {
		c.Redis.SummaryTTL = DefaultSummaryTTL
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Kafka defaults
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = DefaultKafkaTopic
	}

	// Stream defaults. The stream follows the summary's crypto symbols
	// unless overridden.
	if c.Stream.URL == "" {
		c.Stream.URL = DefaultStreamURL
	}
	if len(c.Stream.Symbols) == 0 {
		c.Stream.Symbols = append([]string(nil), c.Summary.CryptoSymbols...)
	}
	if c.Stream.ReconnectBaseDelay == 0 {
		c.Stream.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Stream.ReconnectMaxDelay == 0 {
		c.Stream.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Stream.ReadTimeout == 0 {
		c.Stream.ReadTimeout = DefaultStreamReadTimeout
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
