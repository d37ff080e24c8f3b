package provider

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
)

// DefaultUSDBRLRate is the last-resort USD to BRL rate served when every
// live exchange rate source is down.
var DefaultUSDBRLRate = decimal.RequireFromString("5.42")

// FixedRate is the terminal exchange rate provider. It answers every fetch
// with one configured constant and never fails, which keeps the exchange
// rate chain total without a special-cased branch at the call site.
type FixedRate struct {
	rate     decimal.Decimal
	priority int
}

// NewFixedRate creates a constant-rate provider. A non-positive rate falls
// back to DefaultUSDBRLRate so the provider keeps its never-absent contract.
func NewFixedRate(rate decimal.Decimal, priority int) *FixedRate {
	if !rate.IsPositive() {
		rate = DefaultUSDBRLRate
	}

	return &FixedRate{
		rate:     rate,
		priority: priority,
	}
}

var _ Provider = (*FixedRate)(nil)

func (p *FixedRate) Name() string { return "fixed-rate" }

func (p *FixedRate) Category() model.Category { return model.CategoryExchangeRate }

func (p *FixedRate) Priority() int { return p.priority }

// Fetch returns the configured constant for any symbol.
func (p *FixedRate) Fetch(_ context.Context, symbol string) (model.Quote, error) {
	return model.NewQuote(symbol, p.Name(), p.rate)
}
