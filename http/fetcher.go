// Package http provides HTTP-based implementations of the fetcher and
// manifest sources.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/docbase"
)

// DefaultFetchTimeout is the default per-request timeout.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements docbase.Fetcher at compile time.
var _ docbase.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves content from URLs over plain HTTP. Responses are
// classified into the application error taxonomy: 404-class statuses are
// EGONE (expected, never retried within a batch) and transport failures or
// server errors are EUNAVAILABLE (transient, retryable).
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithClient sets a custom HTTP client. Used by tests.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch retrieves the content at the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", docbase.Errorf(docbase.EINVALID, "invalid URL %q: %s", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", docbase.Errorf(docbase.EUNAVAILABLE, "fetch %s: %s", url, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode, url); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", docbase.Errorf(docbase.EUNAVAILABLE, "read %s: %s", url, err)
	}

	return string(body), nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// classifyStatus maps an HTTP status to the application error taxonomy.
func classifyStatus(status int, url string) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound || status == http.StatusGone:
		return docbase.Errorf(docbase.EGONE, "HTTP %d for %s", status, url)
	default:
		return docbase.Errorf(docbase.EUNAVAILABLE, "HTTP %d for %s", status, url)
	}
}
