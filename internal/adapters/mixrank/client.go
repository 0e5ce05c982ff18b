// Package mixrank is the client for the MixRank firmographic lookup API.
package mixrank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"eventintel/internal/domain"
)

const defaultBaseURL = "https://api.mixrank.com/v3"

// Client calls the MixRank company search API. A missing API key disables the
// client: lookups return (nil, nil) without a network call.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewClient returns a MixRank firmographic client.
func NewClient(client *http.Client, apiKey string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{client: client, baseURL: defaultBaseURL, apiKey: apiKey}
}

// NewClientWithBaseURL is NewClient with an overridable endpoint, for tests.
func NewClientWithBaseURL(client *http.Client, apiKey, baseURL string) *Client {
	c := NewClient(client, apiKey)
	c.baseURL = baseURL
	return c
}

func (c *Client) CompanyByDomain(ctx context.Context, domainName string) (*domain.CompanyData, error) {
	return c.search(ctx, url.Values{"domain": {domainName}})
}

func (c *Client) CompanyByName(ctx context.Context, name string) (*domain.CompanyData, error) {
	return c.search(ctx, url.Values{"name": {name}})
}

type searchResponse struct {
	Results []json.RawMessage `json:"results"`
}

// search returns the first matching company, or (nil, nil) when the provider
// is unconfigured or found nothing.
func (c *Client) search(ctx context.Context, params url.Values) (*domain.CompanyData, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/companies/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call mixrank: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mixrank api returned status: %d", resp.StatusCode)
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode mixrank response: %w", err)
	}
	if len(data.Results) == 0 {
		return nil, nil
	}
	company := &domain.CompanyData{}
	if err := json.Unmarshal(data.Results[0], company); err != nil {
		return nil, fmt.Errorf("decode mixrank company: %w", err)
	}
	company.Raw = data.Results[0]
	return company, nil
}
