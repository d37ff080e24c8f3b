package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/transport"
)

// DefaultYahooURL is the public Yahoo Finance chart endpoint.
const DefaultYahooURL = "https://query1.finance.yahoo.com"

// YahooTimeout bounds Yahoo requests. The chart endpoint is slower than
// the other upstreams and throttles aggressively.
const YahooTimeout = 15 * time.Second

// Yahoo fetches equity quotes from the Yahoo Finance chart endpoint. It is
// the fallback behind Alpha Vantage and handles the B3 tickers the demo
// Alpha Vantage key does not cover.
type Yahoo struct {
	baseURL  string
	priority int
	client   *transport.Client
	logger   *slog.Logger
}

// NewYahoo creates the Yahoo Finance stock provider. A nil client gets the
// Yahoo-specific defaults: longer timeout, long rate-limit backoff.
func NewYahoo(baseURL string, priority int, client *transport.Client, logger *slog.Logger) *Yahoo {
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	if client == nil {
		client = transport.NewClient(
			transport.WithTimeout(YahooTimeout),
			transport.WithRetries(transport.DefaultMaxRetries, transport.LongBackoff),
		)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Yahoo{
		baseURL:  baseURL,
		priority: priority,
		client:   client,
		logger:   logger,
	}
}

var _ Provider = (*Yahoo)(nil)

func (p *Yahoo) Name() string { return "yahoo" }

func (p *Yahoo) Category() model.Category { return model.CategoryStock }

func (p *Yahoo) Priority() int { return p.priority }

// Fetch resolves one equity quote from the one-day chart metadata.
func (p *Yahoo) Fetch(ctx context.Context, symbol string) (model.Quote, error) {
	query := url.Values{}
	query.Set("interval", "1d")
	query.Set("range", "1d")

	var resp struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice  decimal.Decimal `json:"regularMarketPrice"`
					ChartPreviousClose  decimal.Decimal `json:"chartPreviousClose"`
					RegularMarketVolume int64           `json:"regularMarketVolume"`
				} `json:"meta"`
			} `json:"result"`
			Error any `json:"error"`
		} `json:"chart"`
	}

	endpoint := p.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol)
	if err := p.client.GetJSON(ctx, endpoint, query, &resp); err != nil {
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	if len(resp.Chart.Result) == 0 {
		err := fmt.Errorf("%w: empty chart result for %s", model.ErrNoData, symbol)
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	meta := resp.Chart.Result[0].Meta
	q, err := model.NewQuote(symbol, p.Name(), meta.RegularMarketPrice)
	if err != nil {
		p.logger.Warn("fetch failed", "provider", p.Name(), "symbol", symbol, "error", err)
		return model.Quote{}, err
	}

	if meta.ChartPreviousClose.IsPositive() {
		change := meta.RegularMarketPrice.Sub(meta.ChartPreviousClose)
		q.Change = change
		q.ChangePercent = change.Div(meta.ChartPreviousClose).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
	}
	if meta.RegularMarketVolume >= 0 {
		q.Volume = meta.RegularMarketVolume
	}

	return q, nil
}
