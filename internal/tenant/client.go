package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"campus/pkg/sentinel"
)

// HTTPClient performs community existence checks against the backend REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure HTTPClient satisfies the resolver's lookup contract.
var _ Lookup = (*HTTPClient)(nil)

// HTTPClientOption configures the HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// NewHTTPClient creates a backend tenant lookup client.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// checkResponse is the wire shape of GET /tenant-check/{slug}.
type checkResponse struct {
	Success bool    `json:"success"`
	Tenant  *Tenant `json:"tenant"`
}

// Check looks up a community by slug.
// Returns sentinel.ErrNotFound when the backend reports absence or responds
// with a payload missing an identifier, and sentinel.ErrUnavailable for
// transport-level failures. The caller decides how to collapse these.
func (c *HTTPClient) Check(ctx context.Context, slug string) (*Tenant, error) {
	endpoint := fmt.Sprintf("%s/tenant-check/%s", c.baseURL, url.PathEscape(slug))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build tenant-check request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tenant-check request: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read tenant-check response: %w: %w", sentinel.ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("tenant-check status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
		}
		return nil, fmt.Errorf("tenant-check status %d: %w", resp.StatusCode, sentinel.ErrNotFound)
	}

	var payload checkResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode tenant-check response: %w", sentinel.ErrNotFound)
	}
	if !payload.Success || payload.Tenant == nil || payload.Tenant.ID == "" {
		return nil, fmt.Errorf("community %q: %w", slug, sentinel.ErrNotFound)
	}

	record := *payload.Tenant
	if record.Slug == "" {
		record.Slug = slug
	}
	return &record, nil
}
