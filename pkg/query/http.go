package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/facetkit/pkg/httputil"
	"github.com/matzehuels/facetkit/pkg/record"
)

// Retry defaults for [HTTPSearcher].
const (
	DefaultHTTPAttempts = 3
	DefaultHTTPDelay    = 200 * time.Millisecond
)

// StatusError is returned when the search endpoint answers with a non-200
// status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search %s: status %d", e.URL, e.Code)
}

// HTTPSearcher queries the search endpoint of a facetkit host:
// GET <base>/api/search/<type>?q=<query>, answering with a JSON array.
//
// Network failures, 429 and 5xx answers are retried with exponential
// backoff.
type HTTPSearcher struct {
	base     string
	http     *http.Client
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// NewHTTPSearcher creates a searcher for the host at baseURL. A nil client
// uses a client without a timeout; cancel through the context instead.
// Headers are sent with every request.
func NewHTTPSearcher(baseURL string, client *http.Client, headers map[string]string) *HTTPSearcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSearcher{
		base:     strings.TrimRight(baseURL, "/"),
		http:     client,
		headers:  headers,
		attempts: DefaultHTTPAttempts,
		delay:    DefaultHTTPDelay,
	}
}

// WithRetry sets the number of attempts and the initial backoff delay.
// One attempt disables retries.
func (s *HTTPSearcher) WithRetry(attempts int, delay time.Duration) *HTTPSearcher {
	s.attempts = attempts
	s.delay = delay
	return s
}

func (s *HTTPSearcher) Search(ctx context.Context, typeTag, q string) ([]record.Record, error) {
	u := fmt.Sprintf("%s/api/search/%s?q=%s", s.base, url.PathEscape(typeTag), url.QueryEscape(q))

	var out []record.Record
	err := httputil.Retry(ctx, s.attempts, s.delay, func() error {
		rs, err := s.fetch(ctx, u)
		if err != nil {
			return err
		}
		out = rs
		return nil
	})
	return out, err
}

func (s *HTTPSearcher) fetch(ctx context.Context, u string) ([]record.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := &StatusError{Code: resp.StatusCode, URL: u}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, &httputil.RetryableError{Err: err}
		}
		return nil, err
	}

	var raw []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return record.FromMaps(raw), nil
}

var _ Searcher = (*HTTPSearcher)(nil)
