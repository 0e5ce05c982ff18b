package services

import (
	"context"
	"errors"
	"fmt"

	"eventintel/internal/domain"
)

type attendeeService struct {
	attendeeRepo     domain.AttendeeRepository
	notificationRepo domain.NotificationRepository
}

// NewAttendeeService creates the read/delete service over persisted
// attendees. Ownership is enforced here: rows belonging to another user are
// reported as not found.
func NewAttendeeService(
	attendeeRepo domain.AttendeeRepository,
	notificationRepo domain.NotificationRepository,
) domain.AttendeeService {
	return &attendeeService{
		attendeeRepo:     attendeeRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *attendeeService) Get(ctx context.Context, id, userID string) (*domain.Attendee, error) {
	attendee, err := s.attendeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}
	if attendee.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return attendee, nil
}

func (s *attendeeService) ListByEvent(ctx context.Context, eventID, userID string) ([]*domain.Attendee, error) {
	attendees, err := s.attendeeRepo.ListByEventID(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return attendees, nil
}

func (s *attendeeService) Delete(ctx context.Context, id, userID string) error {
	if err := s.attendeeRepo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete attendee: %w", err)
	}
	return nil
}

func (s *attendeeService) ListNotifications(ctx context.Context, attendeeID, userID string) ([]*domain.Notification, error) {
	// Ownership gate before exposing the log.
	if _, err := s.Get(ctx, attendeeID, userID); err != nil {
		return nil, err
	}
	notifications, err := s.notificationRepo.ListByAttendeeID(ctx, attendeeID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}
