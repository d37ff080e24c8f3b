package provider

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/transport"
)

// DefaultBinanceURL is the public Binance REST endpoint.
const DefaultBinanceURL = "https://api.binance.com"

// Binance fetches spot prices from the public Binance ticker endpoint.
// Symbols are bare asset codes ("BTC"); the provider appends the quote
// currency to form the trading pair.
type Binance struct {
	baseURL  string
	quote    string // quote currency appended to symbols, e.g. "USDT"
	priority int
	client   *transport.Client
	logger   *slog.Logger
}

// NewBinance creates the Binance crypto provider.
func NewBinance(baseURL string, priority int, client *transport.Client, logger *slog.Logger) *Binance {
	if baseURL == "" {
		baseURL = DefaultBinanceURL
	}
	if client == nil {
		client = transport.NewClient()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Binance{
		baseURL:  baseURL,
		quote:    "USDT",
		priority: priority,
		client:   client,
		logger:   logger,
	}
}

var _ Provider = (*Binance)(nil)

func (p *Binance) Name() string { return "binance" }

func (p *Binance) Category() model.Category { return model.CategoryCrypto }

func (p *Binance) Priority() int { return p.priority }

// Fetch resolves the spot price of symbol against the quote currency.
// Binance answers 400 for unknown pairs, which surfaces as absence.
func (p *Binance) Fetch(ctx context.Context, symbol string) (model.Quote, error) {
	query := url.Values{}
	query.Set("symbol", strings.ToUpper(symbol)+p.quote)

	var resp struct {
		Symbol string          `json:"symbol"`
		Price  decimal.Decimal `json:"price"`
	}

	if err := p.client.GetJSON(ctx, p.baseURL+"/api/v3/ticker/price", query, &resp); err != nil {
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	q, err := model.NewQuote(symbol, p.Name(), resp.Price)
	if err != nil {
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	return q, nil
}
