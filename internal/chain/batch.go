package chain

import (
	"context"
	"log/slog"
	"time"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
)

// DefaultPacingDelay separates consecutive symbol fetches so a batch does
// not trip upstream rate limits on its own.
const DefaultPacingDelay = 2 * time.Second

// Batch resolves a fixed symbol list through one chain, strictly in input
// order with a pacing delay between consecutive symbols.
type Batch struct {
	chain  *Chain
	delay  time.Duration
	logger *slog.Logger
}

// NewBatch creates a batch fetcher over chain. A negative delay selects
// DefaultPacingDelay; zero disables pacing.
func NewBatch(c *Chain, delay time.Duration, logger *slog.Logger) *Batch {
	if delay < 0 {
		delay = DefaultPacingDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Batch{
		chain:  c,
		delay:  delay,
		logger: logger,
	}
}

// Chain returns the underlying fallback chain.
func (b *Batch) Chain() *Chain { return b.chain }

// FetchAll resolves symbols one at a time in input order, pausing the
// pacing delay between consecutive symbols but not after the last. Symbols
// that exhaust the chain are logged and omitted; the mapping holds only
// successful resolutions.
func (b *Batch) FetchAll(ctx context.Context, symbols []string) map[string]model.Quote {
	results := make(map[string]model.Quote, len(symbols))

	for i, symbol := range symbols {
		if i > 0 && b.delay > 0 {
			select {
			case <-ctx.Done():
				b.logger.Warn("batch canceled",
					"category", b.chain.Category(),
					"resolved", len(results),
					"remaining", len(symbols)-i,
				)
				return results
			case <-time.After(b.delay):
			}
		}

		q, ok := b.chain.Resolve(ctx, symbol)
		if !ok {
			b.logger.Warn("symbol unresolved, omitting from batch",
				"category", b.chain.Category(),
				"symbol", symbol,
			)
			continue
		}

		results[symbol] = q
	}

	return results
}
