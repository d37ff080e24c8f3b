package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/transport"
)

// DefaultFixerURL is the fixer.io endpoint. The free tier is HTTP only.
const DefaultFixerURL = "http://data.fixer.io"

// Fixer fetches currency rates from fixer.io as the secondary rate source.
type Fixer struct {
	baseURL  string
	apiKey   string
	base     string
	priority int
	client   *transport.Client
	logger   *slog.Logger
}

// NewFixer creates the fixer.io provider.
func NewFixer(baseURL, apiKey, base string, priority int, client *transport.Client, logger *slog.Logger) *Fixer {
	if baseURL == "" {
		baseURL = DefaultFixerURL
	}
	if apiKey == "" {
		apiKey = "free"
	}
	if base == "" {
		base = "USD"
	}
	if client == nil {
		client = transport.NewClient()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Fixer{
		baseURL:  baseURL,
		apiKey:   apiKey,
		base:     base,
		priority: priority,
		client:   client,
		logger:   logger,
	}
}

var _ Provider = (*Fixer)(nil)

func (p *Fixer) Name() string { return "fixer" }

func (p *Fixer) Category() model.Category { return model.CategoryExchangeRate }

func (p *Fixer) Priority() int { return p.priority }

// Fetch resolves the rate from the base currency to symbol.
func (p *Fixer) Fetch(ctx context.Context, symbol string) (model.Quote, error) {
	target := strings.ToUpper(symbol)

	query := url.Values{}
	query.Set("access_key", p.apiKey)
	query.Set("base", p.base)
	query.Set("symbols", target)

	var resp struct {
		Success bool                       `json:"success"`
		Rates   map[string]decimal.Decimal `json:"rates"`
	}

	if err := p.client.GetJSON(ctx, p.baseURL+"/api/latest", query, &resp); err != nil {
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	if !resp.Success {
		err := fmt.Errorf("%w: fixer reported failure for %s", model.ErrNoData, symbol)
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	rate, ok := resp.Rates[target]
	if !ok {
		err := fmt.Errorf("%w: %s not in published rates", model.ErrNoData, symbol)
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	q, err := model.NewQuote(symbol, p.Name(), rate)
	if err != nil {
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	return q, nil
}
