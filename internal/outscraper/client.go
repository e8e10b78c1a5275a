// Package outscraper provides the HTTP client for the maps-search API the
// collector queries.
//
// The API is a plain GET with query parameters and X-API-KEY header auth.
// Rate limiting is handled via a token bucket limiter so successive
// searches respect the provider's rate policy.
package outscraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/roundnetatlas/atlas-data/internal/model"
)

// Client is the maps-search HTTP client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a search client that waits at least pause between requests.
func New(baseURL, apiKey string, pause time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if pause <= 0 {
		pause = time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Every(pause), 1),
		logger:     logger,
	}
}

// envelope is the search API response wrapper. The data field holds one or
// more pages of listing objects; with async=false a single page is
// returned, sometimes nested one level deep.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// Search runs one query against the API and returns its listings. The
// query text and region label are combined into a single search string.
func (c *Client) Search(ctx context.Context, query, region string, limit int) ([]model.RawListing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("query", query+", "+region)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("async", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %q returned %d: %s", query, resp.StatusCode, truncate(body, 200))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decodeListings(env.Data)
}

// decodeListings unwraps the data field, which is either a flat listing
// array or an array of pages where the first page holds the listings.
func decodeListings(data json.RawMessage) ([]model.RawListing, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var pages []json.RawMessage
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("decode data field: %w", err)
	}
	if len(pages) == 0 {
		return nil, nil
	}

	// Nested page array: [[{...}, ...]]
	var listings []model.RawListing
	if err := json.Unmarshal(pages[0], &listings); err == nil {
		return listings, nil
	}

	// Flat listing array: [{...}, ...]
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return listings, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
