package config

import "time"

// GathererConfig is the root configuration for a gatherer instance.
type GathererConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Providers ProvidersConfig `yaml:"providers"`
	Summary   SummaryConfig   `yaml:"summary"`
	Collector CollectorConfig `yaml:"collector"`
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Database  DatabaseConfig  `yaml:"database"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Stream    StreamConfig    `yaml:"stream"`
}

// InstanceConfig identifies this gatherer.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// ProvidersConfig holds upstream endpoints and credentials. Empty URLs
// fall back to the public production endpoints; keys default to the
// free/demo tiers the upstreams hand out.
type ProvidersConfig struct {
	ExchangeRateURL string `yaml:"exchangerate_url"`
	FixerURL        string `yaml:"fixer_url"`
	FixerKey        string `yaml:"fixer_key"` // e.g. ${FIXER_API_KEY}
	BinanceURL      string `yaml:"binance_url"`
	AlphaVantageURL string `yaml:"alphavantage_url"`
	AlphaVantageKey string `yaml:"alphavantage_key"`
	YahooURL        string `yaml:"yahoo_url"`
	TwelveDataURL   string `yaml:"twelvedata_url"`
	TwelveDataKey   string `yaml:"twelvedata_key"`

	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// SummaryConfig selects the symbols a market summary covers and the
// pacing between consecutive symbols of a batch.
type SummaryConfig struct {
	RateSymbol       string        `yaml:"rate_symbol"`
	CryptoSymbols    []string      `yaml:"crypto_symbols"`
	StockSymbols     []string      `yaml:"stock_symbols"`
	CommoditySymbols []string      `yaml:"commodity_symbols"`
	PacingDelay      time.Duration `yaml:"pacing_delay"`
}

// CollectorConfig holds the snapshot schedule.
type CollectorConfig struct {
	Schedule string `yaml:"schedule"` // cron spec, e.g. "@every 5m"
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RedisConfig holds the quote cache settings.
type RedisConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Addr       string        `yaml:"addr"`
	Password   string        `yaml:"password"`
	DB         int           `yaml:"db"`
	CryptoTTL  time.Duration `yaml:"crypto_ttl"`
	StockTTL   time.Duration `yaml:"stock_ttl"`
	SummaryTTL time.Duration `yaml:"summary_ttl"`
}

// DatabaseConfig holds snapshot persistence settings. Persistence is
// optional; when disabled the collector runs cache-only.
type DatabaseConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// KafkaConfig holds the snapshot publisher settings.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// StreamConfig holds the live crypto WebSocket settings.
type StreamConfig struct {
	Enabled            bool          `yaml:"enabled"`
	URL                string        `yaml:"url"`
	Symbols            []string      `yaml:"symbols"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
}
