// Package github fetches a developer's activity snapshot from the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// pageSize is the page size for paginated listings.
	pageSize = 100

	// maxRateLimitRetries bounds how many times a single request waits out a
	// rate-limit window before giving up.
	maxRateLimitRetries = 3

	// maxRateLimitWait caps a single rate-limit sleep; longer windows fail
	// the request instead of stalling the scan indefinitely.
	maxRateLimitWait = 2 * time.Minute
)

// Error represents a GitHub API request failure.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("github error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("github error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client is a minimal GitHub REST v3 client with pagination and rate-limit
// backoff.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// sleep is injected for backoff tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client. token may be empty for anonymous access at
// much lower rate limits.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// getJSON performs a GET and decodes the JSON response into out, waiting out
// rate-limit windows up to maxRateLimitRetries times.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	requestURL := c.baseURL + path

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return &Error{URL: requestURL, Message: "failed to create request", Cause: err}
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &Error{URL: requestURL, Message: "HTTP request failed", Cause: err}
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return &Error{URL: requestURL, Message: "failed to read response body", Cause: readErr}
		}

		if isRateLimited(resp) {
			if attempt >= maxRateLimitRetries {
				return &Error{URL: requestURL, StatusCode: resp.StatusCode, Message: "rate limit retries exhausted"}
			}
			wait := rateLimitWait(resp, time.Now())
			if wait > maxRateLimitWait {
				return &Error{URL: requestURL, StatusCode: resp.StatusCode,
					Message: fmt.Sprintf("rate limit window too long (%s)", wait)}
			}
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			return &Error{URL: requestURL, StatusCode: resp.StatusCode, Message: "not found"}
		}
		if resp.StatusCode != http.StatusOK {
			return &Error{URL: requestURL, StatusCode: resp.StatusCode,
				Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
		}

		if err := json.Unmarshal(body, out); err != nil {
			return &Error{URL: requestURL, Message: "failed to decode response", Cause: err}
		}
		return nil
	}
}

// isRateLimited reports whether the response indicates a primary or
// secondary rate limit.
func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden &&
		resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// rateLimitWait derives how long to wait from Retry-After or the
// X-RateLimit-Reset epoch, with a small floor so a zero header still backs
// off briefly.
func rateLimitWait(resp *http.Response, now time.Time) time.Duration {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil {
			if wait := time.Unix(epoch, 0).Sub(now); wait > 0 {
				return wait + time.Second
			}
		}
	}

	return 5 * time.Second
}
