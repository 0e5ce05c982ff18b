package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventintel/internal/domain"
)

type leadScoreRepository struct {
	DB *sql.DB
}

func NewLeadScoreRepository(db *sql.DB) domain.LeadScoreRepository {
	return &leadScoreRepository{
		DB: db,
	}
}

// Upsert writes score, reason, and the key-lead flag. notified_at,
// notification_ref, and sales_rep_id are owned by other writers and are left
// untouched on conflict.
func (r *leadScoreRepository) Upsert(ctx context.Context, s *domain.LeadScore) error {
	query := `
		INSERT INTO lead_scores (attendee_id, user_id, score, reason, is_key_lead, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (attendee_id) DO UPDATE SET
			user_id     = EXCLUDED.user_id,
			score       = EXCLUDED.score,
			reason      = EXCLUDED.reason,
			is_key_lead = EXCLUDED.is_key_lead,
			updated_at  = NOW()
	`
	_, err := r.DB.ExecContext(ctx, query, s.AttendeeID, s.UserID, s.Score, s.Reason, s.IsKeyLead)
	return err
}

func (r *leadScoreRepository) GetByAttendeeID(ctx context.Context, attendeeID string) (*domain.LeadScore, error) {
	query := `
		SELECT attendee_id, user_id, score, reason, is_key_lead, notified_at, notification_ref, sales_rep_id, updated_at
		FROM lead_scores
		WHERE attendee_id = $1
	`
	s := &domain.LeadScore{}
	var notifiedNull sql.NullTime
	var refNull, repNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, attendeeID).Scan(
		&s.AttendeeID, &s.UserID, &s.Score, &s.Reason, &s.IsKeyLead,
		&notifiedNull, &refNull, &repNull, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if notifiedNull.Valid {
		s.NotifiedAt = &notifiedNull.Time
	}
	if refNull.Valid {
		s.NotificationRef = &refNull.String
	}
	if repNull.Valid {
		s.SalesRepID = &repNull.String
	}
	return s, nil
}

func (r *leadScoreRepository) MarkNotified(ctx context.Context, attendeeID, ref string, at time.Time) error {
	query := `
		UPDATE lead_scores
		SET notified_at = $2, notification_ref = $3, updated_at = NOW()
		WHERE attendee_id = $1
	`
	var refArg sql.NullString
	if ref != "" {
		refArg = sql.NullString{String: ref, Valid: true}
	}
	result, err := r.DB.ExecContext(ctx, query, attendeeID, at, refArg)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
