package domain

import (
	"context"
	"strings"
	"time"
)

// Attendee is a person who registered for an event. Created once by
// registration intake and immutable thereafter; duplicate registrations are
// allowed and not merged.
// swagger:model Attendee
type Attendee struct {
	ID             string    `json:"id"`
	EventID        string    `json:"event_id"`
	RegistrationID string    `json:"registration_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Company        *string   `json:"company,omitempty"`
	Title          *string   `json:"title,omitempty"`
	UserID         string    `json:"user_id"`
	RegisteredAt   time.Time `json:"registered_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewAttendee creates a new Attendee. ID is typically set by the repository on create.
func NewAttendee(eventID, registrationID, name, email, userID string, company, title *string, registeredAt time.Time) *Attendee {
	return &Attendee{
		EventID:        eventID,
		RegistrationID: registrationID,
		Name:           name,
		Email:          email,
		Company:        company,
		Title:          title,
		UserID:         userID,
		RegisteredAt:   registeredAt,
	}
}

// AttendeeRepository defines storage operations for attendees.
type AttendeeRepository interface {
	Create(ctx context.Context, a *Attendee) error
	GetByID(ctx context.Context, id string) (*Attendee, error)
	ListByEventID(ctx context.Context, eventID, userID string) ([]*Attendee, error)
	CountByEventID(ctx context.Context, eventID, userID string) (int, error)
	Delete(ctx context.Context, id, userID string) error
}

// RegistrationPayload is the validated input for registration intake.
// Optional fields default on the server when absent.
type RegistrationPayload struct {
	Name           string
	Email          string
	Company        *string
	Title          *string
	EventID        *string
	RegistrationID *string
	RegisteredAt   *time.Time
}

// IntakeService accepts inbound registrations and triggers enrichment.
type IntakeService interface {
	// Register validates the payload, persists a new attendee owned by userID,
	// and triggers the enrichment pipeline. Whether the trigger is awaited is a
	// service configuration concern; its failures are never surfaced here.
	Register(ctx context.Context, userID string, p RegistrationPayload) (*Attendee, error)
}

// AttendeeService defines read/delete operations over persisted attendees.
type AttendeeService interface {
	Get(ctx context.Context, id, userID string) (*Attendee, error)
	ListByEvent(ctx context.Context, eventID, userID string) ([]*Attendee, error)
	Delete(ctx context.Context, id, userID string) error
	ListNotifications(ctx context.Context, attendeeID, userID string) ([]*Notification, error)
}

// personalEmailDomains are consumer mail providers excluded from
// domain-based firmographic lookup and from the professional-domain bonus.
var personalEmailDomains = map[string]struct{}{
	"gmail.com":      {},
	"yahoo.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"aol.com":        {},
	"icloud.com":     {},
	"protonmail.com": {},
}

// EmailDomain returns the lowercased domain part of an email address, or ""
// when the address has no domain part.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// IsPersonalEmailDomain reports whether the email's domain is on the
// consumer-provider deny-list. Addresses without a domain part count as
// personal.
func IsPersonalEmailDomain(email string) bool {
	d := EmailDomain(email)
	if d == "" {
		return true
	}
	_, ok := personalEmailDomains[d]
	return ok
}
