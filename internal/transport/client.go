package transport

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultUserAgent mimics a desktop browser. Several of the public market
// data endpoints reject requests that identify as a script.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const (
	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries bounds how often a rate-limited request is retried.
	DefaultMaxRetries = 3

	// DefaultBackoff is the pause before retrying a rate-limited request.
	DefaultBackoff = 10 * time.Second

	// LongBackoff suits the stricter market-data endpoints, which keep
	// answering 429 well after the first throttled response.
	LongBackoff = 15 * time.Second
)

// Client performs HTTP GET requests against upstream market data endpoints.
// Each provider owns its own Client; a Client carries no request state and
// is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string

	maxRetries int
	backoff    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a transport client with bounded rate-limit retry.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:     slog.Default(),
		userAgent:  DefaultUserAgent,
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultBackoff,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the rate-limit retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.backoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}
