package chain

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/provider"
)

// fakeProvider is a scriptable provider that counts its calls.
type fakeProvider struct {
	name     string
	category model.Category
	priority int
	price    decimal.Decimal
	err      error
	failFor  string // when set, Fetch fails for this one symbol

	calls   atomic.Int32
	mu      sync.Mutex
	symbols []string
}

func (f *fakeProvider) Name() string             { return f.name }
func (f *fakeProvider) Category() model.Category { return f.category }
func (f *fakeProvider) Priority() int            { return f.priority }

func (f *fakeProvider) Fetch(_ context.Context, symbol string) (model.Quote, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.symbols = append(f.symbols, symbol)
	f.mu.Unlock()

	if f.err != nil {
		return model.Quote{}, f.err
	}
	if f.failFor != "" && symbol == f.failFor {
		return model.Quote{}, errDown
	}
	return model.Quote{Symbol: symbol, Price: f.price, Source: f.name, ChangePercent: "0.00%"}, nil
}

// countingHandler counts log records per level.
type countingHandler struct {
	mu     sync.Mutex
	counts map[slog.Level]int
}

func newCountingHandler() *countingHandler {
	return &countingHandler{counts: make(map[slog.Level]int)}
}

func (h *countingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *countingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts[r.Level]++
	return nil
}

func (h *countingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *countingHandler) WithGroup(string) slog.Handler      { return h }

func (h *countingHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[level]
}

var errDown = errors.New("upstream down")

// TestChainResolve tests priority ordering and first-success semantics.
func TestChainResolve(t *testing.T) {
	t.Run("first success stops the walk", func(t *testing.T) {
		p1 := &fakeProvider{name: "one", priority: 1, err: errDown}
		p2 := &fakeProvider{name: "two", priority: 2, price: decimal.RequireFromString("10.5")}
		p3 := &fakeProvider{name: "three", priority: 3, price: decimal.RequireFromString("99.9")}

		c := New(model.CategoryStock, []provider.Provider{p1, p2, p3}, nil)
		q, ok := c.Resolve(context.Background(), "PETR4.SA")

		if !ok {
			t.Fatal("Resolve() ok = false, want true")
		}
		if q.Source != "two" {
			t.Errorf("Source = %q, want %q", q.Source, "two")
		}
		if got := p1.calls.Load(); got != 1 {
			t.Errorf("provider one calls = %d, want 1", got)
		}
		if got := p2.calls.Load(); got != 1 {
			t.Errorf("provider two calls = %d, want 1", got)
		}
		if got := p3.calls.Load(); got != 0 {
			t.Errorf("provider three calls = %d, want 0", got)
		}
	})

	t.Run("providers sorted by priority regardless of input order", func(t *testing.T) {
		p1 := &fakeProvider{name: "primary", priority: 1, price: decimal.RequireFromString("1.0")}
		p2 := &fakeProvider{name: "secondary", priority: 2, price: decimal.RequireFromString("2.0")}
		p3 := &fakeProvider{name: "terminal", priority: 3, price: decimal.RequireFromString("3.0")}

		c := New(model.CategoryStock, []provider.Provider{p3, p1, p2}, nil)
		q, ok := c.Resolve(context.Background(), "VALE3.SA")

		if !ok {
			t.Fatal("Resolve() ok = false, want true")
		}
		if q.Source != "primary" {
			t.Errorf("Source = %q, want %q", q.Source, "primary")
		}
		if got := c.Sources(); got[0] != "primary" || got[1] != "secondary" || got[2] != "terminal" {
			t.Errorf("Sources() = %v, want priority order", got)
		}
	})

	t.Run("equal priorities keep insertion order", func(t *testing.T) {
		pa := &fakeProvider{name: "a", priority: 1, price: decimal.RequireFromString("1.0")}
		pb := &fakeProvider{name: "b", priority: 1, price: decimal.RequireFromString("2.0")}

		c := New(model.CategoryStock, []provider.Provider{pa, pb}, nil)
		q, _ := c.Resolve(context.Background(), "X")
		if q.Source != "a" {
			t.Errorf("Source = %q, want %q (stable sort)", q.Source, "a")
		}
	})

	t.Run("all absent logs exactly one error", func(t *testing.T) {
		h := newCountingHandler()
		p1 := &fakeProvider{name: "one", priority: 1, err: errDown}
		p2 := &fakeProvider{name: "two", priority: 2, err: errDown}
		p3 := &fakeProvider{name: "three", priority: 3, err: errDown}

		c := New(model.CategoryCrypto, []provider.Provider{p1, p2, p3}, slog.New(h))
		_, ok := c.Resolve(context.Background(), "BTC")

		if ok {
			t.Fatal("Resolve() ok = true, want false")
		}
		if got := h.count(slog.LevelError); got != 1 {
			t.Errorf("error log records = %d, want 1", got)
		}
		if got := p3.calls.Load(); got != 1 {
			t.Errorf("terminal provider calls = %d, want 1", got)
		}
	})

	t.Run("non-positive price without error is skipped", func(t *testing.T) {
		buggy := &fakeProvider{name: "buggy", priority: 1, price: decimal.Zero}
		good := &fakeProvider{name: "good", priority: 2, price: decimal.RequireFromString("7.0")}

		c := New(model.CategoryStock, []provider.Provider{buggy, good}, nil)
		q, ok := c.Resolve(context.Background(), "ITUB4.SA")

		if !ok {
			t.Fatal("Resolve() ok = false, want true")
		}
		if q.Source != "good" {
			t.Errorf("Source = %q, want %q", q.Source, "good")
		}
	})

	t.Run("fixed rate terminal answers when live providers are down", func(t *testing.T) {
		p1 := &fakeProvider{name: "live-a", priority: 1, err: errDown}
		p2 := &fakeProvider{name: "live-b", priority: 2, err: errDown}

		c := New(model.CategoryExchangeRate, []provider.Provider{
			p1, p2, provider.NewFixedRate(provider.DefaultUSDBRLRate, 3),
		}, nil)
		q, ok := c.Resolve(context.Background(), "BRL")

		if !ok {
			t.Fatal("Resolve() ok = false, want true")
		}
		if q.Source != "fixed-rate" {
			t.Errorf("Source = %q, want %q", q.Source, "fixed-rate")
		}
		if !q.Price.Equal(provider.DefaultUSDBRLRate) {
			t.Errorf("Price = %s, want %s", q.Price, provider.DefaultUSDBRLRate)
		}
		if got := p1.calls.Load(); got != 1 {
			t.Errorf("live-a calls = %d, want 1", got)
		}
	})

	t.Run("canceled context stops without exhaustion log", func(t *testing.T) {
		h := newCountingHandler()
		p1 := &fakeProvider{name: "one", priority: 1, err: errDown}

		c := New(model.CategoryStock, []provider.Provider{p1}, slog.New(h))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, ok := c.Resolve(ctx, "PETR4.SA")
		if ok {
			t.Fatal("Resolve() ok = true, want false")
		}
		if got := p1.calls.Load(); got != 0 {
			t.Errorf("provider calls = %d, want 0 after cancellation", got)
		}
		if got := h.count(slog.LevelError); got != 0 {
			t.Errorf("error log records = %d, want 0 on cancellation", got)
		}
	})

	t.Run("empty chain reports absence", func(t *testing.T) {
		c := New(model.CategoryStock, nil, slog.New(newCountingHandler()))
		if _, ok := c.Resolve(context.Background(), "PETR4.SA"); ok {
			t.Error("Resolve() ok = true, want false for empty chain")
		}
		if c.Len() != 0 {
			t.Errorf("Len() = %d, want 0", c.Len())
		}
	})

	t.Run("input slice mutation does not reorder the chain", func(t *testing.T) {
		p1 := &fakeProvider{name: "one", priority: 1, price: decimal.RequireFromString("1.0")}
		p2 := &fakeProvider{name: "two", priority: 2, price: decimal.RequireFromString("2.0")}
		input := []provider.Provider{p1, p2}

		c := New(model.CategoryStock, input, nil)
		input[0] = p2

		q, _ := c.Resolve(context.Background(), "X")
		if q.Source != "one" {
			t.Errorf("Source = %q, want %q", q.Source, "one")
		}
	})
}
