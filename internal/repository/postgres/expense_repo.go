package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventintel/internal/domain"
)

type expenseRepository struct {
	DB *sql.DB
}

func NewExpenseRepository(db *sql.DB) domain.ExpenseRepository {
	return &expenseRepository{
		DB: db,
	}
}

func (r *expenseRepository) Upsert(ctx context.Context, e *domain.EventExpenses) error {
	query := `
		INSERT INTO event_expenses (event_id, user_id, total_cents, txn_count, raw, pulled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id, user_id) DO UPDATE SET
			total_cents = EXCLUDED.total_cents,
			txn_count   = EXCLUDED.txn_count,
			raw         = EXCLUDED.raw,
			pulled_at   = EXCLUDED.pulled_at
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.EventID, e.UserID, e.TotalCents, e.TxnCount, nullJSON(e.Raw), e.PulledAt,
	).Scan(&e.ID)
}

func (r *expenseRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventExpenses, error) {
	query := `
		SELECT id, event_id, user_id, total_cents, txn_count, raw, pulled_at
		FROM event_expenses
		WHERE event_id = $1 AND user_id = $2
	`
	e := &domain.EventExpenses{}
	var rawNull []byte
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).
		Scan(&e.ID, &e.EventID, &e.UserID, &e.TotalCents, &e.TxnCount, &rawNull, &e.PulledAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.Raw = rawNull
	return e, nil
}
