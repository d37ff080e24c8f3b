package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/transport"
)

// DefaultTwelveDataURL is the public Twelve Data endpoint.
const DefaultTwelveDataURL = "https://api.twelvedata.com"

// defaultCommoditySymbols maps futures tickers to the spot symbols Twelve
// Data quotes. Unmapped symbols pass through unchanged.
var defaultCommoditySymbols = map[string]string{
	"GC=F": "XAUUSD", // gold
	"SI=F": "XAGUSD", // silver
	"CL=F": "USOIL",  // crude oil
}

// TwelveData fetches commodity prices from the Twelve Data price endpoint.
type TwelveData struct {
	baseURL   string
	apiKey    string
	symbolMap map[string]string
	priority  int
	client    *transport.Client
	logger    *slog.Logger
}

// NewTwelveData creates the Twelve Data commodity provider.
func NewTwelveData(baseURL, apiKey string, priority int, client *transport.Client, logger *slog.Logger) *TwelveData {
	if baseURL == "" {
		baseURL = DefaultTwelveDataURL
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

	return &TwelveData{
		baseURL:   baseURL,
		apiKey:    apiKey,
		symbolMap: defaultCommoditySymbols,
		priority:  priority,
		client:    client,
		logger:    logger,
	}
}

var _ Provider = (*TwelveData)(nil)

func (p *TwelveData) Name() string { return "twelvedata" }

func (p *TwelveData) Category() model.Category { return model.CategoryCommodity }

func (p *TwelveData) Priority() int { return p.priority }

// Fetch resolves one commodity price. Error payloads arrive with HTTP 200
// and status "error", so the body is inspected before the price is used.
func (p *TwelveData) Fetch(ctx context.Context, symbol string) (model.Quote, error) {
	upstream, ok := p.symbolMap[symbol]
	if !ok {
		upstream = symbol
	}

	query := url.Values{}
	query.Set("symbol", upstream)
	query.Set("apikey", p.apiKey)

	var resp struct {
		Price   decimal.Decimal `json:"price"`
		Status  string          `json:"status"`
		Message string          `json:"message"`
	}

	if err := p.client.GetJSON(ctx, p.baseURL+"/price", query, &resp); err != nil {
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	if resp.Status == "error" {
		err := fmt.Errorf("%w: %s rejected: %s", model.ErrNoData, upstream, resp.Message)
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
