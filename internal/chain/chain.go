package chain

import (
	"context"
	"log/slog"
	"sort"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/provider"
)

// Chain is an immutable, priority-ordered sequence of providers for one
// category. Ordering is fixed at construction; changing it means building
// a new chain, never mutating one mid-request.
type Chain struct {
	category  model.Category
	providers []provider.Provider
	logger    *slog.Logger
}

// New builds a chain over the given providers, sorted ascending by
// priority. Providers with equal priority keep their given order. The
// input slice is copied so later changes to it cannot reorder the chain.
func New(category model.Category, providers []provider.Provider, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}

	sorted := make([]provider.Provider, len(providers))
	copy(sorted, providers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	return &Chain{
		category:  category,
		providers: sorted,
		logger:    logger,
	}
}

// Category returns the asset class this chain resolves.
func (c *Chain) Category() model.Category { return c.category }

// Len returns the number of providers in the chain.
func (c *Chain) Len() int { return len(c.providers) }

// Sources lists the provider names in resolution order.
func (c *Chain) Sources() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Resolve tries providers in ascending priority order and accepts the
// first quote with a positive price, calling no further providers after
// a hit. When every provider comes back empty it logs a single ERROR
// entry and reports absence. A canceled context stops the walk without
// the exhaustion log.
func (c *Chain) Resolve(ctx context.Context, symbol string) (model.Quote, bool) {
	for _, p := range c.providers {
		if ctx.Err() != nil {
			return model.Quote{}, false
		}

		q, err := p.Fetch(ctx, symbol)
		if err == nil && q.Price.IsPositive() {
			return q, true
		}
	}

	c.logger.Error("all sources exhausted",
		"category", c.category,
		"symbol", symbol,
		"providers", len(c.providers),
	)
	return model.Quote{}, false
}
