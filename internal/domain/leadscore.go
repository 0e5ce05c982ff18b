package domain

import (
	"context"
	"time"
)

// LeadScore is the at-most-one-per-attendee sales-worthiness summary.
// Score is always within [0,10]; IsKeyLead is true iff the score met the
// configured key-lead threshold when computed.
// swagger:model LeadScore
type LeadScore struct {
	AttendeeID      string     `json:"attendee_id"`
	UserID          string     `json:"user_id"`
	Score           int        `json:"score"`
	Reason          string     `json:"reason"`
	IsKeyLead       bool       `json:"is_key_lead"`
	NotifiedAt      *time.Time `json:"notified_at,omitempty"`
	NotificationRef *string    `json:"notification_ref,omitempty"`
	SalesRepID      *string    `json:"sales_rep_id,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// LeadScoreRepository defines storage operations for lead scores.
type LeadScoreRepository interface {
	// Upsert writes score, reason, and key-lead flag. It must not touch
	// notified_at, notification_ref, or sales_rep_id on an existing row.
	Upsert(ctx context.Context, s *LeadScore) error
	GetByAttendeeID(ctx context.Context, attendeeID string) (*LeadScore, error)
	// MarkNotified records a successful notification dispatch. An empty ref is
	// stored as NULL.
	MarkNotified(ctx context.Context, attendeeID, ref string, at time.Time) error
}
