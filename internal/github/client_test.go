package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a client at a test server and records sleeps instead
// of performing them.
func newTestClient(serverURL string) (*Client, *[]time.Duration) {
	client := NewClient(serverURL, "test-token")
	var sleeps []time.Duration
	client.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return client, &sleeps
}

func TestGetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"login":"octocat"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	var out struct {
		Login string `json:"login"`
	}
	err := client.getJSON(context.Background(), "/user", &out)

	require.NoError(t, err)
	assert.Equal(t, "octocat", out.Login)
}

func TestGetJSON_RetriesAfterRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL)

	var out map[string]bool
	err := client.getJSON(context.Background(), "/rate-limited", &out)

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	require.Len(t, *sleeps, 1)
	assert.Equal(t, 7*time.Second, (*sleeps)[0])
}

func TestGetJSON_SecondaryRateLimitDetected(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL)

	var out map[string]any
	err := client.getJSON(context.Background(), "/forbidden", &out)

	require.NoError(t, err)
	assert.Len(t, *sleeps, 1)
}

func TestGetJSON_RateLimitRetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL)

	var out map[string]any
	err := client.getJSON(context.Background(), "/always-limited", &out)

	require.Error(t, err)
	var ghErr *Error
	require.True(t, errors.As(err, &ghErr))
	assert.Equal(t, http.StatusTooManyRequests, ghErr.StatusCode)
	assert.Len(t, *sleeps, maxRateLimitRetries)
}

func TestGetJSON_RateLimitWindowTooLong(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "600")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL)

	var out map[string]any
	err := client.getJSON(context.Background(), "/long-window", &out)

	require.Error(t, err)
	assert.Empty(t, *sleeps)
}

func TestGetJSON_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	var out map[string]any
	err := client.getJSON(context.Background(), "/missing", &out)

	require.Error(t, err)
	var ghErr *Error
	require.True(t, errors.As(err, &ghErr))
	assert.Equal(t, http.StatusNotFound, ghErr.StatusCode)
}

func TestRateLimitWait_HeaderPrecedence(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "30")
	assert.Equal(t, 30*time.Second, rateLimitWait(resp, now))

	resp = &http.Response{Header: http.Header{}}
	resp.Header.Set("X-RateLimit-Reset", "1785585660") // 2026-08-01T12:01:00Z
	assert.Equal(t, time.Minute+time.Second, rateLimitWait(resp, now))

	resp = &http.Response{Header: http.Header{}}
	assert.Equal(t, 5*time.Second, rateLimitWait(resp, now))
}
