package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/everse/unified-api/pkg/logging"
)

// Client fetches JSON from GitHub with bounded retry. Retries apply to
// transport errors and to 429/5xx responses, with exponential backoff.
type Client struct {
	http       *http.Client
	token      string
	maxRetries int
	backoff    time.Duration
}

// NewClient creates a client. token may be empty; backoff is the base of the
// exponential backoff between attempts.
func NewClient(timeout time.Duration, maxRetries int, backoff time.Duration, token string) *Client {
	return &Client{
		http:       &http.Client{Timeout: timeout},
		token:      token,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

// retryableStatus mirrors the upstream service's throttling and flake modes.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Get fetches a URL and returns the response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			logging.Debug("retrying fetch", "url", url, "attempt", attempt, "wait", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, retry, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}

	return nil, fmt.Errorf("fetching %s: %w", url, lastErr)
}

func (c *Client) get(ctx context.Context, url string) (body []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, retryableStatus(resp.StatusCode), fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}

// GetJSON fetches a URL and decodes the body into a raw record. A failed
// fetch returns an error; callers decide whether that skips a record or
// fails the run.
func (c *Client) GetJSON(ctx context.Context, url string) (map[string]any, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	var record map[string]any
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("parsing JSON from %s: %w", url, err)
	}
	return record, nil
}
