package helpers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"slices"
	"strconv"
	"time"

	"golang.org/x/net/html/charset"

	apperrors "zuverschenken/adwatcher/pkg/errors"
)

// FetchOptions describes the fixed request identity for a listing fetch
type FetchOptions struct {
	UserAgent string
	// Host overrides the virtual host header, empty keeps the URL host
	Host    string
	Timeout time.Duration
}

// RateLimitError is returned for 429/430 responses and carries the server's
// Retry-After hint when it sent one.
type RateLimitError struct {
	Err        *apperrors.Error
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes the typed error to errors.As
func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewClient returns the HTTP client used for listing fetches
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// FetchPage sends a GET request with the pinned browser headers, converts the
// response body to UTF-8 (if needed), and returns it as an io.Reader.
// Transport failures and non-200 responses come back as distinct error types.
func FetchPage(ctx context.Context, client *http.Client, url string, opts FetchOptions) (io.Reader, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, apperrors.NewTransport(url, "failed to create request", err)
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("page", "1")
	if opts.Host != "" {
		req.Host = opts.Host
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.NewTransport(url, "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	// Check for rate limiting
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, &RateLimitError{
			Err:        apperrors.NewRateLimit(url, retryAfter),
			RetryAfter: retryAfter,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewRemoteStatus(url, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewTransport(url, "failed to read response body", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))
	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(bodyBytes), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, apperrors.NewTransport(url, "failed to read converted UTF-8 body", err)
	}

	return &buf, nil
}

// parseRetryAfter understands the delay-seconds form only; zero means no hint
func parseRetryAfter(raw string) time.Duration {
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
