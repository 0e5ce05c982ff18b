// Package notify provides messaging-relay implementations of domain.Notifier.
package notify

import (
	"context"
	"log"
	"net/http"

	"eventintel/config"
	"eventintel/internal/domain"
)

// NewNotifier creates a notifier from config. Provider "pylon" uses the Pylon
// messaging relay; "ses" delivers alerts to the sales address via AWS SES;
// "noop" or unknown logs and discards.
func NewNotifier(cfg config.NotifyConfig, client *http.Client) (domain.Notifier, error) {
	switch cfg.Provider {
	case "pylon":
		return NewPylonNotifier(client, cfg.PylonToken), nil
	case "ses":
		return newSESNotifier(cfg)
	case "noop":
		return &noopNotifier{}, nil
	default:
		log.Printf("[NOTIFY] Unknown notification provider %q, using noop", cfg.Provider)
		return &noopNotifier{}, nil
	}
}

type noopNotifier struct{}

func (n *noopNotifier) Send(ctx context.Context, channel, destination, message string) (string, error) {
	log.Println("[NOTIFY] Message would be sent (noop)", "channel", channel, "destination", destination)
	return "", nil
}
