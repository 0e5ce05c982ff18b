// Package brex is the client for the Brex card-transactions API.
package brex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"eventintel/internal/domain"
)

const defaultBaseURL = "https://platform.brexapis.com/v2"

// pageSize is the per-page limit requested from the provider.
const pageSize = 100

// Client pages through Brex card transactions.
type Client struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewClient returns a Brex transactions client.
func NewClient(client *http.Client, token string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{client: client, baseURL: defaultBaseURL, token: token}
}

// NewClientWithBaseURL is NewClient with an overridable endpoint, for tests.
func NewClientWithBaseURL(client *http.Client, token, baseURL string) *Client {
	c := NewClient(client, token)
	c.baseURL = baseURL
	return c
}

type apiAmount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type apiTransaction struct {
	ID           string    `json:"id"`
	Amount       apiAmount `json:"amount"`
	MerchantName string    `json:"merchant_name"`
	Description  string    `json:"description"`
	Memo         string    `json:"memo"`
	PostedAt     time.Time `json:"posted_at"`
}

type listResponse struct {
	Items      []apiTransaction `json:"items"`
	NextCursor string           `json:"next_cursor"`
}

// ListTransactions fetches one page. Pass the previous page's NextCursor to
// continue; start/end only apply to the first page, matching the provider's
// cursor contract.
func (c *Client) ListTransactions(ctx context.Context, cursor string, start, end *time.Time) (*domain.TransactionPage, error) {
	if c.token == "" {
		return nil, fmt.Errorf("brex token not configured")
	}

	params := url.Values{}
	if cursor != "" {
		params.Set("cursor", cursor)
	} else {
		params.Set("limit", fmt.Sprintf("%d", pageSize))
		if start != nil {
			params.Set("start_date", start.Format("2006-01-02"))
		}
		if end != nil {
			params.Set("end_date", end.Format("2006-01-02"))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transactions?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create transactions request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call brex: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("brex api returned status: %d", resp.StatusCode)
	}

	var data listResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode brex response: %w", err)
	}

	page := &domain.TransactionPage{NextCursor: data.NextCursor}
	for _, t := range data.Items {
		page.Items = append(page.Items, domain.Transaction{
			ID:           t.ID,
			AmountCents:  t.Amount.Amount,
			Currency:     t.Amount.Currency,
			MerchantName: t.MerchantName,
			Description:  t.Description,
			Memo:         t.Memo,
			PostedAt:     t.PostedAt,
		})
	}
	return page, nil
}
