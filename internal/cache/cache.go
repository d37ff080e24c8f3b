// Package cache provides a Redis-backed quote and summary cache.
//
// The cache sits beside the provider chains, never inside them: callers
// consult it before resolving a symbol and write results back afterwards.
// Every failure degrades to a cache miss so a Redis outage slows the
// service down but never takes it down.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
)

// Default expirations per entry class. Crypto prices move fast and go
// stale quickly, stock and commodity quotes are refreshed on a slower
// cadence, and assembled summaries live the longest.
const (
	DefaultCryptoTTL  = 60 * time.Second
	DefaultStockTTL   = 5 * time.Minute
	DefaultSummaryTTL = 10 * time.Minute
)

const summaryKey = "summary:latest"

// TTLs carries the expiration for each class of cached entry. Zero
// fields fall back to the package defaults.
type TTLs struct {
	Crypto  time.Duration
	Stock   time.Duration
	Summary time.Duration
}

// DefaultTTLs returns the standard expiration set.
func DefaultTTLs() TTLs {
	return TTLs{
		Crypto:  DefaultCryptoTTL,
		Stock:   DefaultStockTTL,
		Summary: DefaultSummaryTTL,
	}
}

// Cache stores quotes and market summaries in Redis.
type Cache struct {
	client *redis.Client
	ttls   TTLs
	logger *slog.Logger
}

// New wraps an existing Redis client. The client's lifecycle stays with
// the caller.
func New(client *redis.Client, ttls TTLs, logger *slog.Logger) *Cache {
	if ttls.Crypto <= 0 {
		ttls.Crypto = DefaultCryptoTTL
	}
	if ttls.Stock <= 0 {
		ttls.Stock = DefaultStockTTL
	}
	if ttls.Summary <= 0 {
		ttls.Summary = DefaultSummaryTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		client: client,
		ttls:   ttls,
		logger: logger.With("component", "cache"),
	}
}

// Ping checks the connection to the Redis server.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func quoteKey(category model.Category, symbol string) string {
	return fmt.Sprintf("quote:%s:%s", category, symbol)
}

func (c *Cache) ttlFor(category model.Category) time.Duration {
	if category == model.CategoryCrypto {
		return c.ttls.Crypto
	}
	return c.ttls.Stock
}

// PutQuote stores a quote under its category key with the category's TTL.
func (c *Cache) PutQuote(ctx context.Context, category model.Category, q model.Quote) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	key := quoteKey(category, q.Symbol)
	if err := c.client.Set(ctx, key, payload, c.ttlFor(category)).Err(); err != nil {
		return fmt.Errorf("cache write %s: %w", key, err)
	}
	return nil
}

// GetQuote returns the cached quote for a symbol. The returned quote is
// re-tagged with Source "cache" so downstream consumers can tell a hit
// from a live fetch. Any read or decode failure is reported as a miss.
func (c *Cache) GetQuote(ctx context.Context, category model.Category, symbol string) (model.Quote, bool) {
	key := quoteKey(category, symbol)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return model.Quote{}, false
	}

	var q model.Quote
	if err := json.Unmarshal(payload, &q); err != nil {
		c.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return model.Quote{}, false
	}
	q.Source = "cache"
	return q, true
}

// PutSummary stores the latest assembled summary.
func (c *Cache) PutSummary(ctx context.Context, s model.MarketSummary) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey, payload, c.ttls.Summary).Err(); err != nil {
		return fmt.Errorf("cache write %s: %w", summaryKey, err)
	}
	return nil
}

// LatestSummary returns the most recently cached summary, if any.
func (c *Cache) LatestSummary(ctx context.Context) (model.MarketSummary, bool) {
	payload, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", "key", summaryKey, "error", err)
		}
		return model.MarketSummary{}, false
	}

	var s model.MarketSummary
	if err := json.Unmarshal(payload, &s); err != nil {
		c.logger.Warn("cache entry corrupt", "key", summaryKey, "error", err)
		return model.MarketSummary{}, false
	}
	return s, true
}
