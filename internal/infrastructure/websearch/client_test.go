package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/msmeconnect/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="results">
  <a class="result__snippet" href="https://orphan.example.com">Snippet before any title</a>
  <div class="result results_links">
    <h2 class="result__title"><a class="result__a" href="#">Jaipur <b>Toy</b> Makers</a></h2>
    <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fjaipurtoys.example.in%2Fabout&amp;rut=abc">
      Wooden <b>toys</b> supplier in Rajasthan
    </a>
  </div>
  <div class="result results_links">
    <h2 class="result__title">Craft Agency</h2>
    <a class="result__snippet" href="https://craft.example.com">Craft agency for artisans</a>
  </div>
  <div class="result results_links">
    <h2 class="result__title">Third</h2>
    <a class="result__snippet extra" href="https://third.example.com">Third result</a>
  </div>
</div>
</body></html>`

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:   baseURL,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		Timeout:   2 * time.Second,
	})
}

func TestParseResults(t *testing.T) {
	got, err := ParseResults(strings.NewReader(resultsPage), 10)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, domain.RawCandidate{
		Title:   UnknownTitle,
		Snippet: "Snippet before any title",
		URL:     "https://orphan.example.com",
	}, got[0])

	assert.Equal(t, "Jaipur Toy Makers", got[1].Title)
	assert.Equal(t, "Wooden toys supplier in Rajasthan", got[1].Snippet)
	assert.Equal(t, "https://jaipurtoys.example.in/about", got[1].URL)

	assert.Equal(t, "Craft Agency", got[2].Title)
	assert.Equal(t, "Third", got[3].Title)
	assert.Equal(t, "https://third.example.com", got[3].URL)
}

func TestParseResults_Limit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero", limit: 0, want: 0},
		{name: "two", limit: 2, want: 2},
		{name: "more than available", limit: 20, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResults(strings.NewReader(resultsPage), tt.limit)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestParseResults_NoResults(t *testing.T) {
	got, err := ParseResults(strings.NewReader(`<html><body><p>No results.</p></body></html>`), 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnwrapRedirect(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{
			name: "redirect wrapper",
			href: "//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fa%3Fb%3D1&rut=xyz",
			want: "https://example.com/a?b=1",
		},
		{
			name: "literal plus kept",
			href: "//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fc+%2B%2B%2Fa+b&rut=xyz",
			want: "https://example.com/c++/a+b",
		},
		{name: "plain link", href: "https://example.com", want: "https://example.com"},
		{name: "wrapper without target", href: "//duckduckgo.com/l/?rut=xyz", want: "//duckduckgo.com/l/?rut=xyz"},
		{name: "empty", href: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnwrapRedirect(tt.href))
		})
	}
}

func TestFetchCandidates_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wooden toys vendor supplier agency in rajasthan India", r.URL.Query().Get("q"))
		assert.Equal(t, "Mozilla/5.0 (Windows NT 10.0; Win64; x64)", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	got := client.FetchCandidates(context.Background(), "wooden toys vendor supplier agency in rajasthan India", 3)

	require.Len(t, got, 3)
	assert.Equal(t, "Jaipur Toy Makers", got[1].Title)
}

func TestFetchCandidates_FailuresYieldEmptyList(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(300 * time.Millisecond)
				w.Write([]byte(resultsPage))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := newTestClient(server.URL)
			client.httpClient.Timeout = 100 * time.Millisecond

			got := client.FetchCandidates(context.Background(), "query", 3)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestFetchCandidates_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	got := newTestClient(url).FetchCandidates(context.Background(), "query", 3)
	assert.Empty(t, got)
}

func TestFetchCandidates_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	got := newTestClient(server.URL).FetchCandidates(ctx, "query", 3)
	assert.Empty(t, got)
}

func TestFetchCandidates_LimiterWaitBoundedByTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:           server.URL,
		Timeout:           200 * time.Millisecond,
		RequestsPerSecond: 0.2,
		Burst:             1,
	})

	first := client.FetchCandidates(context.Background(), "query", 3)
	require.Len(t, first, 3)

	start := time.Now()
	second := client.FetchCandidates(context.Background(), "query", 3)
	elapsed := time.Since(start)

	assert.NotNil(t, second)
	assert.Empty(t, second)
	assert.Less(t, elapsed, time.Second)
}
