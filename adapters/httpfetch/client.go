// Package httpfetch fetches database files served over HTTP.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gocinema/domain/core"
	"gocinema/ports"
)

// DefaultTimeout bounds a single fetch
const DefaultTimeout = 30 * time.Second

// Client fetches files below a base URL. Locations that are not URLs go to
// the local fetcher, if one is set.
type Client struct {
	httpClient *http.Client
	local      ports.TextFetcher
}

// New creates a client with the given per-request timeout
func New(timeout time.Duration, local ports.TextFetcher) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		local:      local,
	}
}

// IsURL reports whether location is fetched over HTTP
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Fetch returns the body of location/file
func (c *Client) Fetch(ctx context.Context, location, file string) (string, error) {
	if !IsURL(location) {
		if c.local == nil {
			return "", core.NewIngestionError(location, fmt.Errorf("%w: not a URL", core.ErrInvalidInput))
		}
		return c.local.Fetch(ctx, location, file)
	}

	url := strings.TrimRight(location, "/") + "/" + file
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", core.NewIngestionError(url, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", core.NewIngestionError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", core.NewIngestionError(url, fmt.Errorf("%w: file %s", core.ErrNotFound, file))
	}
	if resp.StatusCode != http.StatusOK {
		return "", core.NewIngestionError(url, fmt.Errorf("server returned status %d", resp.StatusCode))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", core.NewIngestionError(url, err)
	}
	return string(body), nil
}
