// Package fetch retrieves raw vector-tile bytes over HTTP.
//
// The client performs a single GET per call - no retries, no caching - and
// surfaces failures as typed errors: [TransportError] for network faults and
// [HTTPError] for non-success responses. Cancellation and timeouts flow
// through the request context; this is the only blocking step of a tile
// analysis.
package fetch

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tileprobe/tileprobe/pkg/buildinfo"
)

// DefaultTimeout bounds a single tile request when the caller's context
// carries no earlier deadline.
const DefaultTimeout = 30 * time.Second

// Client fetches tile payloads. The zero value is not usable; construct
// with [NewClient]. A single Client is safe for concurrent use.
type Client struct {
	http      *http.Client
	userAgent string
	headers   map[string]string
}

// NewClient creates a tile-fetching client. A zero timeout falls back to
// [DefaultTimeout]. Headers, if non-nil, are applied to every request.
func NewClient(timeout time.Duration, headers map[string]string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: "tileprobe/" + buildinfo.Version,
		headers:   headers,
	}
}

// Fetch retrieves the raw bytes at url. It returns a [TransportError] for
// network failures and an [HTTPError] for responses outside the 2xx range.
// The response body is returned whole; there is no streaming.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPError{
			URL:        url,
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	return data, nil
}

func statusText(resp *http.Response) string {
	if s := http.StatusText(resp.StatusCode); s != "" {
		return s
	}
	// Non-standard code: fall back to whatever the server sent.
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}
