package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultPylonBaseURL = "https://api.usepylon.com/v1"

// pylonNotifier delivers messages through the Pylon messaging relay.
type pylonNotifier struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewPylonNotifier returns a Notifier backed by the Pylon API.
func NewPylonNotifier(client *http.Client, token string) *pylonNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &pylonNotifier{client: client, baseURL: defaultPylonBaseURL, token: token}
}

// NewPylonNotifierWithBaseURL is NewPylonNotifier with an overridable
// endpoint, for tests.
func NewPylonNotifierWithBaseURL(client *http.Client, token, baseURL string) *pylonNotifier {
	n := NewPylonNotifier(client, token)
	n.baseURL = baseURL
	return n
}

type pylonMessage struct {
	Channel     string `json:"channel"`
	Destination string `json:"destination"`
	Text        string `json:"text"`
}

type pylonResponse struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
}

func (n *pylonNotifier) Send(ctx context.Context, channel, destination, message string) (string, error) {
	if n.token == "" {
		return "", fmt.Errorf("pylon token not configured")
	}

	body, err := json.Marshal(pylonMessage{Channel: channel, Destination: destination, Text: message})
	if err != nil {
		return "", fmt.Errorf("encode pylon message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create pylon request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call pylon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("pylon api returned status: %d", resp.StatusCode)
	}

	var data pylonResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode pylon response: %w", err)
	}
	if data.ID != "" {
		return data.ID, nil
	}
	return data.Reference, nil
}
