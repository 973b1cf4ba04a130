// Package catalog provides the HTTP client for the external skill catalog.
//
// The catalog exposes three read-only endpoints: prefix autocomplete, fuzzy
// search, and the full skill-name list. Results are ordered by the catalog's
// own relevance; callers take the first result as the candidate and validate
// it themselves.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/skillscope/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// autocompleteLimit caps how many candidates an autocomplete query returns.
const autocompleteLimit = 5

// Searcher is the catalog lookup capability consumed by the matcher and the
// signal extractor.
type Searcher interface {
	// Search returns candidate skills for a term, best match first.
	Search(ctx context.Context, term string) ([]types.SkillEntity, error)
	// AllSkillNames returns every skill name in the catalog, used for
	// whole-word scanning of READMEs and pull-request text.
	AllSkillNames(ctx context.Context) ([]string, error)
}

// Error represents a catalog request failure.
type Error struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog error for %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("catalog error for %s: %s", e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client is the HTTP skill-catalog client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// skillRecord is the catalog's wire representation of a skill.
type skillRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Search queries the autocomplete endpoint first and falls back to fuzzy
// search when autocomplete returns nothing.
func (c *Client) Search(ctx context.Context, term string) ([]types.SkillEntity, error) {
	results, err := c.querySkills(ctx, "/skills/autocomplete", term)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return results, nil
	}
	return c.querySkills(ctx, "/skills/search", term)
}

// AllSkillNames fetches the full catalog skill-name list.
func (c *Client) AllSkillNames(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, c.baseURL+"/skills")
	if err != nil {
		return nil, err
	}

	var records []skillRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &Error{Endpoint: "/skills", Message: "failed to decode response", Cause: err}
	}

	names := make([]string, 0, len(records))
	for _, record := range records {
		if record.Name != "" {
			names = append(names, record.Name)
		}
	}
	return names, nil
}

func (c *Client) querySkills(ctx context.Context, endpoint, term string) ([]types.SkillEntity, error) {
	query := url.Values{}
	query.Set("q", term)
	query.Set("limit", fmt.Sprintf("%d", autocompleteLimit))

	body, err := c.get(ctx, c.baseURL+endpoint+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var records []skillRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to decode response", Cause: err}
	}

	skills := make([]types.SkillEntity, 0, len(records))
	for _, record := range records {
		if record.ID == "" || record.Name == "" {
			continue
		}
		skills = append(skills, types.SkillEntity{
			ID:       record.ID,
			Name:     record.Name,
			Category: record.Category,
		})
	}
	return skills, nil
}

func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &Error{Endpoint: requestURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Endpoint: requestURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Endpoint: requestURL, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Endpoint: requestURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	return body, nil
}
