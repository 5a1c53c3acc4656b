// Package httpget provides the HTTP GET plumbing shared by the version
// resolver and the artifact fetcher. It centralizes timeouts, the
// user-agent header and error wrapping so the callers only deal with
// bytes and typed errors.
package httpget

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// MetadataTimeout bounds version lookups and other small requests.
const MetadataTimeout = 30 * time.Second

// DownloadTimeout bounds binary artifact downloads.
const DownloadTimeout = 60 * time.Second

// DefaultUserAgent identifies the tool to upstream registries.
const DefaultUserAgent = "GOSS-Repository-Updater/1.0"

// Error represents a failed GET, wrapping the transport-level cause.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("GET %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("GET %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a single request.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns the settings used for metadata lookups.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   MetadataTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Bytes issues a GET and returns the full response body. Any non-2xx
// status is an *Error carrying the status code; the body is still
// returned when it was readable so callers can inspect error pages.
func Bytes(ctx context.Context, urlStr string, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	agent := opts.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", agent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	return body, nil
}
