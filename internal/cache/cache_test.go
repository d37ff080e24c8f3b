package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(client, DefaultTTLs(), logger), mr
}

func mustQuote(t *testing.T, symbol, source string, price float64) model.Quote {
	t.Helper()
	q, err := model.NewQuote(symbol, source, decimal.NewFromFloat(price))
	if err != nil {
		t.Fatalf("NewQuote(%s): %v", symbol, err)
	}
	return q
}

func TestQuoteRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	q := mustQuote(t, "BTC", "binance", 67000.5)
	if err := c.PutQuote(ctx, model.CategoryCrypto, q); err != nil {
		t.Fatalf("PutQuote: %v", err)
	}

	got, ok := c.GetQuote(ctx, model.CategoryCrypto, "BTC")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.Symbol != "BTC" {
		t.Errorf("symbol = %q, want BTC", got.Symbol)
	}
	if !got.Price.Equal(q.Price) {
		t.Errorf("price = %s, want %s", got.Price, q.Price)
	}
	if got.Source != "cache" {
		t.Errorf("source = %q, want cache after a hit", got.Source)
	}
}

func TestQuoteMiss(t *testing.T) {
	c, _ := newTestCache(t)

	if _, ok := c.GetQuote(context.Background(), model.CategoryStock, "PETR4.SA"); ok {
		t.Error("expected a miss for an unknown symbol")
	}
}

func TestQuoteExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.PutQuote(ctx, model.CategoryCrypto, mustQuote(t, "BTC", "binance", 67000)); err != nil {
		t.Fatalf("PutQuote crypto: %v", err)
	}
	if err := c.PutQuote(ctx, model.CategoryStock, mustQuote(t, "PETR4.SA", "yahoo-finance", 35.5)); err != nil {
		t.Fatalf("PutQuote stock: %v", err)
	}

	// Crypto entries expire after a minute, stock entries stay for five.
	mr.FastForward(DefaultCryptoTTL + time.Second)

	if _, ok := c.GetQuote(ctx, model.CategoryCrypto, "BTC"); ok {
		t.Error("crypto quote should have expired")
	}
	if _, ok := c.GetQuote(ctx, model.CategoryStock, "PETR4.SA"); !ok {
		t.Error("stock quote should still be cached")
	}

	mr.FastForward(DefaultStockTTL)

	if _, ok := c.GetQuote(ctx, model.CategoryStock, "PETR4.SA"); ok {
		t.Error("stock quote should have expired")
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	s := model.NewMarketSummary()
	rate := decimal.NewFromFloat(5.42)
	s.ExchangeRate = &rate
	s.CryptoPrices["BTC"] = decimal.NewFromFloat(67000)
	s.StockPrices["PETR4.SA"] = mustQuote(t, "PETR4.SA", "simulated", 35.5)
	s.SourcesUsed = []string{"exchangerate-api", "binance", "simulated"}

	if err := c.PutSummary(ctx, s); err != nil {
		t.Fatalf("PutSummary: %v", err)
	}

	got, ok := c.LatestSummary(ctx)
	if !ok {
		t.Fatal("expected a cached summary")
	}
	if got.ID != s.ID {
		t.Errorf("id = %s, want %s", got.ID, s.ID)
	}
	if got.ExchangeRate == nil || !got.ExchangeRate.Equal(rate) {
		t.Errorf("exchange rate = %v, want %s", got.ExchangeRate, rate)
	}
	if len(got.CryptoPrices) != 1 || len(got.StockPrices) != 1 {
		t.Errorf("prices = %d crypto / %d stock, want 1 / 1",
			len(got.CryptoPrices), len(got.StockPrices))
	}

	mr.FastForward(DefaultSummaryTTL + time.Second)

	if _, ok := c.LatestSummary(ctx); ok {
		t.Error("summary should have expired")
	}
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	c, mr := newTestCache(t)

	if err := mr.Set(quoteKey(model.CategoryCrypto, "BTC"), "{not json"); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	if _, ok := c.GetQuote(context.Background(), model.CategoryCrypto, "BTC"); ok {
		t.Error("corrupt entry should read as a miss")
	}
}

func TestServerDownDegrades(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	if err := c.PutQuote(ctx, model.CategoryCrypto, mustQuote(t, "BTC", "binance", 67000)); err == nil {
		t.Error("expected a write error with the server down")
	}
	if _, ok := c.GetQuote(ctx, model.CategoryCrypto, "BTC"); ok {
		t.Error("expected a miss with the server down")
	}
}
