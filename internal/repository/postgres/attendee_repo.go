package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventintel/internal/domain"
)

type attendeeRepository struct {
	DB *sql.DB
}

func NewAttendeeRepository(db *sql.DB) domain.AttendeeRepository {
	return &attendeeRepository{
		DB: db,
	}
}

func (r *attendeeRepository) Create(ctx context.Context, a *domain.Attendee) error {
	query := `
		INSERT INTO attendees (event_id, registration_id, name, email, company, title, user_id, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query,
		a.EventID, a.RegistrationID, a.Name, a.Email,
		nullString(a.Company), nullString(a.Title), a.UserID, a.RegisteredAt,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *attendeeRepository) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	query := `
		SELECT id, event_id, registration_id, name, email, company, title, user_id, registered_at, created_at
		FROM attendees
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *attendeeRepository) ListByEventID(ctx context.Context, eventID, userID string) ([]*domain.Attendee, error) {
	query := `
		SELECT id, event_id, registration_id, name, email, company, title, user_id, registered_at, created_at
		FROM attendees
		WHERE event_id = $1 AND user_id = $2
		ORDER BY registered_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendees := make([]*domain.Attendee, 0)
	for rows.Next() {
		a := &domain.Attendee{}
		var companyNull, titleNull sql.NullString
		if err := rows.Scan(&a.ID, &a.EventID, &a.RegistrationID, &a.Name, &a.Email,
			&companyNull, &titleNull, &a.UserID, &a.RegisteredAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		if companyNull.Valid {
			a.Company = &companyNull.String
		}
		if titleNull.Valid {
			a.Title = &titleNull.String
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

func (r *attendeeRepository) CountByEventID(ctx context.Context, eventID, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM attendees WHERE event_id = $1 AND user_id = $2`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *attendeeRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM attendees WHERE id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *attendeeRepository) scanOne(row *sql.Row) (*domain.Attendee, error) {
	a := &domain.Attendee{}
	var companyNull, titleNull sql.NullString
	err := row.Scan(&a.ID, &a.EventID, &a.RegistrationID, &a.Name, &a.Email,
		&companyNull, &titleNull, &a.UserID, &a.RegisteredAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if companyNull.Valid {
		a.Company = &companyNull.String
	}
	if titleNull.Valid {
		a.Title = &titleNull.String
	}
	return a, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
