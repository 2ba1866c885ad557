// Package fetch downloads remote documents. Fetches have a bounded timeout
// and are never retried: a timeout or non-success status is a terminal
// failure for the request that needed the document.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchError marks a remote document as unreachable.
type FetchError struct {
	URL    string
	Status int // 0 when the transport failed before a response
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches remote document bytes.
type Client struct {
	httpClient *http.Client
	maxBytes   int64
}

func NewClient(timeout time.Duration, maxBytes int64) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

// Fetch downloads the document at url once. Non-2xx responses and
// transport failures surface as *FetchError.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if int64(len(data)) > c.maxBytes {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("document exceeds %d bytes", c.maxBytes)}
	}
	return data, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
