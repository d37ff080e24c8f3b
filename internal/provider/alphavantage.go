package provider

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/transport"

	"github.com/shopspring/decimal"
)

// DefaultAlphaVantageURL is the public Alpha Vantage endpoint.
const DefaultAlphaVantageURL = "https://www.alphavantage.co"

// AlphaVantage fetches equity quotes through the GLOBAL_QUOTE function.
// The demo key answers a limited symbol set and an empty quote object for
// everything else, which surfaces as absence.
type AlphaVantage struct {
	baseURL  string
	apiKey   string
	priority int
	client   *transport.Client
	logger   *slog.Logger
}

// NewAlphaVantage creates the Alpha Vantage stock provider.
func NewAlphaVantage(baseURL, apiKey string, priority int, client *transport.Client, logger *slog.Logger) *AlphaVantage {
	if baseURL == "" {
		baseURL = DefaultAlphaVantageURL
	}
	if apiKey == "" {
		apiKey = "demo"
	}
	if client == nil {
		client = transport.NewClient()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AlphaVantage{
		baseURL:  baseURL,
		apiKey:   apiKey,
		priority: priority,
		client:   client,
		logger:   logger,
	}
}

var _ Provider = (*AlphaVantage)(nil)

func (p *AlphaVantage) Name() string { return "alphavantage" }

func (p *AlphaVantage) Category() model.Category { return model.CategoryStock }

func (p *AlphaVantage) Priority() int { return p.priority }

// Fetch resolves one equity quote.
func (p *AlphaVantage) Fetch(ctx context.Context, symbol string) (model.Quote, error) {
	query := url.Values{}
	query.Set("function", "GLOBAL_QUOTE")
	query.Set("symbol", symbol)
	query.Set("apikey", p.apiKey)

	// Alpha Vantage keys its fields with numbered names.
	var resp struct {
		GlobalQuote struct {
			Price         decimal.Decimal `json:"05. price"`
			Volume        string          `json:"06. volume"`
			Change        decimal.Decimal `json:"09. change"`
			ChangePercent string          `json:"10. change percent"`
		} `json:"Global Quote"`
	}

	if err := p.client.GetJSON(ctx, p.baseURL+"/query", query, &resp); err != nil {
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	// An unknown symbol or an exceeded key comes back 200 with an empty
	// quote object, so the zero price carries the absence signal.
	q, err := model.NewQuote(symbol, p.Name(), resp.GlobalQuote.Price)
	if err != nil {
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	q.Change = resp.GlobalQuote.Change
	if resp.GlobalQuote.ChangePercent != "" {
		q.ChangePercent = resp.GlobalQuote.ChangePercent
	}
	if v, err := strconv.ParseInt(resp.GlobalQuote.Volume, 10, 64); err == nil && v >= 0 {
		q.Volume = v
	}

	return q, nil
}
