package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// StatusError is returned when a provider answers with a non-2xx status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// httpSession is the shared transport plumbing of the provider adapters
type httpSession struct {
	client    *http.Client
	userAgent string
}

// Option customizes a provider adapter
type Option func(*httpSession)

// WithHTTPClient replaces the adapter's HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *httpSession) { s.client = c }
}

func newHTTPSession(userAgent string, timeout time.Duration, opts []Option) httpSession {
	s := httpSession{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// getJSON issues a GET and decodes a JSON body into out. Providers are
// called once; there is no retry loop.
func (s httpSession) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
