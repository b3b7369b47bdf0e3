package trade

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estopassoli/vaal-trade-assistant/internal/query"
	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(
		logger.WithFile(filepath.Join(t.TempDir(), "test.log")),
		logger.WithLevel(zerolog.Disabled),
	)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func testQuery() *query.Query {
	return &query.Query{
		Query: query.Body{Status: query.Option{Option: "available"}, Type: "Iron Ring"},
		Sort:  map[string]string{"price": "asc"},
	}
}

func TestSearch(t *testing.T) {
	var gotPath, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id":"abc123","total":42}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger(t))
	result, err := c.Search(context.Background(), testQuery(), "Fate of the Vaal")
	require.NoError(t, err)

	assert.Equal(t, "abc123", result.ID)
	assert.Equal(t, 42, result.Total)
	assert.Equal(t, "/Fate%20of%20the%20Vaal", gotPath)
	assert.Equal(t, "application/json", gotContentType)
}

func TestSearchRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit exceeded"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger(t))
	_, err := c.Search(context.Background(), testQuery(), "Standard")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsRateLimit())
	assert.Equal(t, 30*time.Second, apiErr.RetryAfter)
}

func TestSearchBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid query"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger(t))
	_, err := c.Search(context.Background(), testQuery(), "Standard")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.False(t, apiErr.IsRateLimit())
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Zero(t, apiErr.RetryAfter)
}

func TestSearchMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total":0}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger(t))
	_, err := c.Search(context.Background(), testQuery(), "Standard")
	require.Error(t, err)
	assert.IsType(t, &APIError{}, err)
}

func TestRetryAfterHint(t *testing.T) {
	tests := []struct {
		name   string
		header string
		body   string
		want   time.Duration
	}{
		{name: "header takes precedence", header: "60", body: "Please wait 90 seconds", want: 60 * time.Second},
		{name: "body phrase", body: "Rate limit exceeded. Please wait 75 seconds and try again.", want: 75 * time.Second},
		{name: "case insensitive", body: "WAIT 10 SECONDS", want: 10 * time.Second},
		{name: "no hint", body: "try again later", want: 0},
		{name: "bad header ignored", header: "soon", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Retry-After", tt.header)
			}
			assert.Equal(t, tt.want, retryAfterHint(h, tt.body))
		})
	}
}

func TestResultURL(t *testing.T) {
	assert.Equal(t,
		"https://www.pathofexile.com/trade2/search/poe2/Fate%20of%20the%20Vaal/abc123",
		ResultURL("Fate of the Vaal", "abc123"))
}

func TestNormalizeLeague(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: "Standard"},
		{input: "fate-of-the-vaal", want: "Fate of the Vaal"},
		{input: "vaal", want: "Fate of the Vaal"},
		{input: "Fate%20of%20the%20Vaal", want: "Fate of the Vaal"},
		{input: "standard", want: "Standard"},
		{input: "hardcore-standard", want: "Hardcore Standard"},
		{input: "Standard", want: "Standard"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLeague(tt.input))
		})
	}
}
