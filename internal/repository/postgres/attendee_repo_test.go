package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventintel/internal/domain"
)

func TestAttendeeRepository_Create(t *testing.T) {
	ctx := context.Background()
	registeredAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	company := "Acme"

	tests := []struct {
		name     string
		attendee *domain.Attendee
		mock     func(mock sqlmock.Sqlmock)
		wantID   string
		wantErr  bool
	}{
		{
			name: "success",
			attendee: &domain.Attendee{
				EventID:        "devconf",
				RegistrationID: "reg_1",
				Name:           "Jane Doe",
				Email:          "jane@acme.com",
				Company:        &company,
				UserID:         "user-1",
				RegisteredAt:   registeredAt,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO attendees \(event_id, registration_id, name, email, company, title, user_id, registered_at\)`).
					WithArgs("devconf", "reg_1", "Jane Doe", "jane@acme.com",
						sql.NullString{String: "Acme", Valid: true}, sql.NullString{}, "user-1", registeredAt).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("att-uuid-1", registeredAt))
			},
			wantID: "att-uuid-1",
		},
		{
			name: "db error",
			attendee: &domain.Attendee{
				EventID:        "devconf",
				RegistrationID: "reg_2",
				Name:           "Jane",
				Email:          "jane@acme.com",
				UserID:         "user-1",
				RegisteredAt:   registeredAt,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO attendees`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewAttendeeRepository(db)
			err = repo.Create(ctx, tt.attendee)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.attendee.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendeeRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	registeredAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("success with null optionals", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, event_id, registration_id, name, email, company, title, user_id, registered_at, created_at`).
			WithArgs("att-1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "event_id", "registration_id", "name", "email", "company", "title", "user_id", "registered_at", "created_at",
			}).AddRow("att-1", "devconf", "reg_1", "Jane Doe", "jane@acme.com", nil, nil, "user-1", registeredAt, registeredAt))

		repo := NewAttendeeRepository(db)
		attendee, err := repo.GetByID(ctx, "att-1")
		require.NoError(t, err)
		require.Equal(t, "Jane Doe", attendee.Name)
		require.Nil(t, attendee.Company)
		require.Nil(t, attendee.Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, event_id, registration_id`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewAttendeeRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAttendeeRepository_CountByEventID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM attendees WHERE event_id = \$1 AND user_id = \$2`).
		WithArgs("devconf", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	repo := NewAttendeeRepository(db)
	count, err := repo.CountByEventID(context.Background(), "devconf", "user-1")
	require.NoError(t, err)
	require.Equal(t, 42, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendeeRepository_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM attendees WHERE id = \$1 AND user_id = \$2`).
			WithArgs("att-1", "user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewAttendeeRepository(db)
		require.NoError(t, repo.Delete(context.Background(), "att-1", "user-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows deleted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM attendees`).
			WithArgs("att-1", "user-2").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewAttendeeRepository(db)
		require.ErrorIs(t, repo.Delete(context.Background(), "att-1", "user-2"), domain.ErrNotFound)
	})
}
