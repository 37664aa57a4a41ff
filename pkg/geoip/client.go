package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client resolves an IP address to an ISO 3166-1 alpha-2 country code.
// An empty code means the origin is unknown; callers decide whether
// unknown origins are allowed.
type Client interface {
	CountryCode(ctx context.Context, ip string) (string, error)
}

// HTTPClient queries a remote geolocation service.
type HTTPClient struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a client against the given geolocation base URL.
func NewHTTPClient(baseURL, apiKey string) Client {
	return &HTTPClient{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type lookupResponse struct {
	CountryCode string `json:"countryCode"`
}

// CountryCode looks up the country of the given IP.
func (c *HTTPClient) CountryCode(ctx context.Context, ip string) (string, error) {
	endpoint := fmt.Sprintf("%s/lookup?ip=%s", c.BaseURL, url.QueryEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build geoip request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("geoip lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geoip lookup rejected: status %d", resp.StatusCode)
	}
	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode geoip response: %w", err)
	}
	return body.CountryCode, nil
}

// MockClient returns a fixed country code, for development and tests.
type MockClient struct {
	Code string
}

// NewMockClient creates a mock resolver answering with the given code.
func NewMockClient(code string) Client {
	return &MockClient{Code: code}
}

// CountryCode returns the configured code.
func (c *MockClient) CountryCode(ctx context.Context, ip string) (string, error) {
	return c.Code, nil
}
