/*
Package scraper implements the blog scraping pipeline for the trident-rss
backend: fetching the listing page, extracting candidate article links,
enriching each link with a publication date, and handing the result to the
feed renderer.
*/
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UpstreamError reports a failed outbound fetch: either a transport error or
// a non-success status from the remote server.
type UpstreamError struct {
	URL    string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Client is the outbound HTTP client used for the listing page and article
// pages. Every request carries the identifying user agent and is bounded by
// the configured timeout.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a new outbound client
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Get fetches rawURL and returns the response body. Transport failures and
// non-2xx statuses are returned as *UpstreamError.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &UpstreamError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{URL: rawURL, Err: err}
	}
	return body, nil
}

// Head probes rawURL for reachability. Used by readiness checks.
func (c *Client) Head(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return &UpstreamError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &UpstreamError{URL: rawURL, Err: err}
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &UpstreamError{URL: rawURL, Status: resp.StatusCode}
	}
	return nil
}
