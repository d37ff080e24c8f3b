package provider

import (
	"context"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
)

// Provider wraps one upstream source for one asset category.
//
// Fetch returns a validated quote or an error; it never panics and never
// lets a transport or parse fault escape as anything else. Implementations
// are stateless across calls and own their transport client, so a Provider
// is safe for concurrent use.
type Provider interface {
	// Name returns the source tag stamped on quotes, e.g. "binance".
	Name() string

	// Category returns the asset class this provider serves.
	Category() model.Category

	// Priority orders providers within a chain; lower is tried first.
	Priority() int

	// Fetch resolves one symbol. Any expected failure (transport fault,
	// rate-limit exhaustion, malformed payload, no data) comes back as an
	// error after a WARN log entry.
	Fetch(ctx context.Context, symbol string) (model.Quote, error)
}
