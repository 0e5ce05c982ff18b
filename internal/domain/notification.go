package domain

import (
	"context"
	"time"
)

// Notification is an append-only log entry for a sales alert attempt. A nil
// ExternalRef means delivery did not succeed; the attempt is still recorded.
// swagger:model Notification
type Notification struct {
	ID          string    `json:"id"`
	AttendeeID  *string   `json:"attendee_id,omitempty"`
	Channel     string    `json:"channel"`
	Destination string    `json:"destination"`
	Message     string    `json:"message"`
	ExternalRef *string   `json:"external_ref,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

// NotificationRepository defines storage operations for the notification log.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByAttendeeID(ctx context.Context, attendeeID string) ([]*Notification, error)
}

// Notifier delivers a message to the messaging-relay provider and returns the
// provider's delivery reference.
type Notifier interface {
	Send(ctx context.Context, channel, destination, message string) (ref string, err error)
}

// DispatchResult is the outcome of a notification dispatch.
type DispatchResult struct {
	Sent    bool    `json:"notification_sent"`
	Skipped string  `json:"skipped_reason,omitempty"`
	Ref     *string `json:"notification_ref,omitempty"`
}

// NotificationService dispatches key-lead alerts.
type NotificationService interface {
	// Dispatch re-reads the attendee's current state and sends an alert when it
	// is a key lead. Delivery failure is not an error: the attempt is logged
	// and the result reports Sent=false. force bypasses the cooldown guard.
	Dispatch(ctx context.Context, attendeeID string, force bool) (*DispatchResult, error)
}
