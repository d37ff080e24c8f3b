package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrRateLimitExhausted is returned when a rate-limited request stayed rate
// limited through every permitted retry.
var ErrRateLimitExhausted = errors.New("rate limit retries exhausted")

// StatusError represents a non-200 response from an upstream.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, http.StatusText(e.Code))
}

// RateLimited reports whether the upstream throttled the request.
func (e *StatusError) RateLimited() bool {
	return e.Code == http.StatusTooManyRequests
}

// doRequest performs a single GET attempt against rawURL.
func (c *Client) doRequest(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	fullURL := rawURL
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: body,
		}
	}

	return body, nil
}

// Get performs a GET request, retrying 429 responses up to the configured
// bound with a fixed backoff. Every other failure returns immediately.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying rate-limited request",
				"attempt", attempt,
				"backoff", c.backoff,
				"url", rawURL,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff):
			}
		}

		body, err := c.doRequest(ctx, rawURL, query)
		if err == nil {
			return body, nil
		}

		lastErr = err

		// Only a 429 earns another attempt.
		var statusErr *StatusError
		if !errors.As(err, &statusErr) || !statusErr.RateLimited() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRateLimitExhausted, c.maxRetries+1, lastErr)
}

// GetJSON performs a GET request and unmarshals the response body into result.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, result any) error {
	body, err := c.Get(ctx, rawURL, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
