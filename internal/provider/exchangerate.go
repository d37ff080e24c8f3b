package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/transport"
)

// DefaultExchangeRateURL is the public exchangerate-api endpoint.
const DefaultExchangeRateURL = "https://api.exchangerate-api.com"

// ExchangeRateAPI fetches currency rates from exchangerate-api.com.
// The symbol passed to Fetch is the target currency, e.g. "BRL".
type ExchangeRateAPI struct {
	baseURL  string
	base     string // base currency of the published rates, e.g. "USD"
	priority int
	client   *transport.Client
	logger   *slog.Logger
}

// NewExchangeRateAPI creates the exchangerate-api provider. An empty
// baseURL selects the public endpoint; a nil client or logger selects
// defaults.
func NewExchangeRateAPI(baseURL, base string, priority int, client *transport.Client, logger *slog.Logger) *ExchangeRateAPI {
	if baseURL == "" {
		baseURL = DefaultExchangeRateURL
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

	return &ExchangeRateAPI{
		baseURL:  baseURL,
		base:     base,
		priority: priority,
		client:   client,
		logger:   logger,
	}
}

var _ Provider = (*ExchangeRateAPI)(nil)

func (p *ExchangeRateAPI) Name() string { return "exchangerate-api" }

func (p *ExchangeRateAPI) Category() model.Category { return model.CategoryExchangeRate }

func (p *ExchangeRateAPI) Priority() int { return p.priority }

// Fetch resolves the rate from the base currency to symbol.
func (p *ExchangeRateAPI) Fetch(ctx context.Context, symbol string) (model.Quote, error) {
	var resp struct {
		Rates map[string]decimal.Decimal `json:"rates"`
	}

	if err := p.client.GetJSON(ctx, p.baseURL+"/v4/latest/"+p.base, nil, &resp); err != nil {
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	rate, ok := resp.Rates[strings.ToUpper(symbol)]
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
