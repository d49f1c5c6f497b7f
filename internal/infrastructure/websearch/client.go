package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/msmeconnect/backend/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// maxBodyBytes caps how much of a results page is read
	maxBodyBytes = 4 << 20

	defaultTimeout = 10 * time.Second
)

// Config holds the search endpoint settings
type Config struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client fetches vendor candidates from the DuckDuckGo HTML endpoint.
// It makes exactly one request per call and never retries.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	timeout     time.Duration
	log         *logrus.Entry
}

// NewClient creates a new search client
func NewClient(cfg Config) *Client {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		rateLimiter: rate.NewLimiter(limit, burst),
		timeout:     timeout,
		log:         logrus.WithField("component", "websearch"),
	}
}

type fetchResult struct {
	candidates []domain.RawCandidate
	err        error
}

// FetchCandidates runs the search on its own goroutine and waits for it or
// for ctx. Any failure is logged and yields an empty list.
func (c *Client) FetchCandidates(ctx context.Context, query string, limit int) []domain.RawCandidate {
	if limit <= 0 {
		return []domain.RawCandidate{}
	}

	done := make(chan fetchResult, 1)
	go func() {
		candidates, err := c.search(ctx, query, limit)
		done <- fetchResult{candidates: candidates, err: err}
	}()

	select {
	case <-ctx.Done():
		c.log.WithError(ctx.Err()).WithField("query", query).Warn("live search abandoned")
		return []domain.RawCandidate{}
	case res := <-done:
		if res.err != nil {
			c.log.WithError(res.err).WithField("query", query).Warn("live search fetch failed")
			return []domain.RawCandidate{}
		}
		c.log.WithFields(logrus.Fields{"query": query, "results": len(res.candidates)}).Debug("live search complete")
		return res.candidates
	}
}

// search bounds the limiter wait and the request together by the client
// timeout. Wait fails fast when the next token is past that deadline.
func (c *Client) search(ctx context.Context, query string, limit int) ([]domain.RawCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, domain.NewCollaboratorError(domain.KindUnavailable, "websearch", fmt.Errorf("rate limiter: %w", err))
	}

	params := url.Values{}
	params.Set("q", query)
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.NewCollaboratorError(domain.KindConfigMissing, "websearch", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewCollaboratorError(domain.KindUnavailable, "websearch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewCollaboratorError(domain.KindUnavailable, "websearch", fmt.Errorf("status %d", resp.StatusCode))
	}

	candidates, err := ParseResults(io.LimitReader(resp.Body, maxBodyBytes), limit)
	if err != nil {
		return nil, domain.NewCollaboratorError(domain.KindMalformed, "websearch", err)
	}
	if candidates == nil {
		candidates = []domain.RawCandidate{}
	}
	return candidates, nil
}
