// Package sixtyfour is the client for the SixtyFour person/company
// enrichment API.
package sixtyfour

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"eventintel/internal/domain"
)

const defaultBaseURL = "https://api.sixtyfour.ai"

// Client calls the SixtyFour enrichment API. A missing API key disables the
// client: EnrichLead returns (nil, nil) without a network call.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewClient returns a SixtyFour enrichment client.
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

type enrichRequest struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company,omitempty"`
}

func (c *Client) EnrichLead(ctx context.Context, q domain.LeadQuery) (*domain.PersonData, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	body, err := json.Marshal(enrichRequest{Name: q.Name, Email: q.Email, Company: q.Company})
	if err != nil {
		return nil, fmt.Errorf("encode enrich request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/enrich/lead", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create enrich request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call sixtyfour: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sixtyfour api returned status: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sixtyfour response: %w", err)
	}
	person := &domain.PersonData{}
	if err := json.Unmarshal(raw, person); err != nil {
		return nil, fmt.Errorf("decode sixtyfour response: %w", err)
	}
	person.Raw = raw
	if person.Company != nil {
		// Keep the company sub-record's own blob so it can be persisted
		// independently of the person blob.
		if sub, err := json.Marshal(person.Company); err == nil {
			person.Company.Raw = sub
		}
	}
	return person, nil
}
