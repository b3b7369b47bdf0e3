package trade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/estopassoli/vaal-trade-assistant/internal/query"
	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

// SearchSiteURL is the human-facing search page results are opened on.
const SearchSiteURL = "https://www.pathofexile.com/trade2/search/poe2"

var tradeHTTPClient = &http.Client{Timeout: 30 * time.Second}

// SearchResult is the endpoint's answer to a submitted query.
type SearchResult struct {
	ID    string `json:"id"`
	Total int    `json:"total"`
}

// APIError is a non-2xx response from the search endpoint, carrying any
// rate-limit metadata the endpoint provided.
type APIError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trade API error %d: %s", e.StatusCode, e.Body)
}

// IsRateLimit reports whether the failure is a transient rate-limit
// rejection, i.e. worth retrying after a wait.
func (e *APIError) IsRateLimit() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// Client submits serialized queries to the trade search endpoint. One
// request in flight at a time is the caller's responsibility; the
// endpoint enforces a global per-account rate limit.
type Client struct {
	http    *http.Client
	baseURL string
	log     *logger.Logger
}

// NewClient creates a search client against the given API base URL.
func NewClient(baseURL string, log *logger.Logger) *Client {
	return &Client{
		http:    tradeHTTPClient,
		baseURL: baseURL,
		log:     log,
	}
}

// Search posts the query for the given league and returns the search
// identifier plus total hit count. Failures are returned as *APIError
// when the endpoint answered, or a plain error for transport problems.
func (c *Client) Search(ctx context.Context, q *query.Query, league string) (SearchResult, error) {
	body, err := q.Marshal()
	if err != nil {
		return SearchResult{}, fmt.Errorf("failed to serialize query: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(league))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return SearchResult{}, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.Debug("Submitting trade search",
		"league", league,
		"body_bytes", len(body))

	resp, err := c.http.Do(req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return SearchResult{}, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			RetryAfter: retryAfterHint(resp.Header, string(respBody)),
		}
		c.log.Debug("Trade search rejected",
			"status", resp.StatusCode,
			"retry_after", apiErr.RetryAfter)
		return SearchResult{}, apiErr
	}

	var result SearchResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return SearchResult{}, &APIError{
			StatusCode: resp.StatusCode,
			Body:       fmt.Sprintf("malformed response: %v", err),
		}
	}
	if result.ID == "" {
		return SearchResult{}, &APIError{
			StatusCode: resp.StatusCode,
			Body:       "no search id returned",
		}
	}

	return result, nil
}

var waitHint = regexp.MustCompile(`(?i)wait (\d+) seconds`)

// retryAfterHint extracts the endpoint's suggested wait from the
// Retry-After header or a "wait N seconds" phrase in the body. Zero
// means no hint.
func retryAfterHint(header http.Header, body string) time.Duration {
	if v := header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if m := waitHint.FindStringSubmatch(body); m != nil {
		if secs, err := strconv.Atoi(m[1]); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}

// ResultURL is the browsable page for a completed search.
func ResultURL(league, searchID string) string {
	return fmt.Sprintf("%s/%s/%s", SearchSiteURL, url.PathEscape(league), searchID)
}
