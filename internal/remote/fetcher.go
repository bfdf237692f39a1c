// Package remote is the boundary to the designer's metadata services.
//
// Every call either yields a decoded document or reports "no data". Transport
// failures, non-success statuses and undecodable bodies are all normalized to
// "no data" here, so nothing downstream ever sees a fetch error.
package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Fetcher retrieves the raw body stored at a service path.
// The boolean is false when no usable body could be obtained.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, bool)
}

// HTTPFetcher issues authenticated GET requests against a fixed origin.
type HTTPFetcher struct {
	origin     string
	cookie     string
	credential string
	client     *http.Client
	logger     *slog.Logger
}

// HTTPOptions configures an HTTPFetcher.
type HTTPOptions struct {
	Origin     string        // base URL, no trailing slash required
	AuthCookie string        // cookie name that carries the credential
	Credential string        // opaque auth token
	Timeout    time.Duration // 0 means no timeout
	Client     *http.Client  // optional; overrides Timeout when set
	Logger     *slog.Logger
}

// NewHTTPFetcher creates a fetcher for the given origin and credential.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPFetcher{
		origin:     strings.TrimRight(opts.Origin, "/"),
		cookie:     opts.AuthCookie,
		credential: opts.Credential,
		client:     client,
		logger:     logger,
	}
}

// Fetch performs a GET for origin+path. Redirects are followed by the client.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, bool) {
	url := f.origin + path

	body, err := f.get(ctx, url)
	if err != nil {
		f.logger.Warn("fetch failed", slog.String("url", url), slog.Any("error", err))
		return nil, false
	}
	f.logger.Debug("fetched", slog.String("url", url), slog.Int("bytes", len(body)))
	return body, true
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cookie", fmt.Sprintf("%s=%s", f.cookie, f.credential))
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	return body, nil
}
