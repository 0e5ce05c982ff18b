package postgres

import (
	"context"
	"database/sql"

	"eventintel/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{
		DB: db,
	}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (attendee_id, channel, destination, message, external_ref, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		nullString(n.AttendeeID), n.Channel, n.Destination, n.Message,
		nullString(n.ExternalRef), n.SentAt,
	).Scan(&n.ID)
}

func (r *notificationRepository) ListByAttendeeID(ctx context.Context, attendeeID string) ([]*domain.Notification, error) {
	query := `
		SELECT id, attendee_id, channel, destination, message, external_ref, sent_at
		FROM notifications
		WHERE attendee_id = $1
		ORDER BY sent_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, attendeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		n := &domain.Notification{}
		var attendeeNull, refNull sql.NullString
		if err := rows.Scan(&n.ID, &attendeeNull, &n.Channel, &n.Destination, &n.Message, &refNull, &n.SentAt); err != nil {
			return nil, err
		}
		if attendeeNull.Valid {
			n.AttendeeID = &attendeeNull.String
		}
		if refNull.Valid {
			n.ExternalRef = &refNull.String
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
