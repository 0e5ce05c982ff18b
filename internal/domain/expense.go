package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Transaction is a corporate-card transaction as returned by the
// transactions provider. Amounts are integer minor currency units.
type Transaction struct {
	ID           string    `json:"id"`
	AmountCents  int64     `json:"amount_cents"`
	Currency     string    `json:"currency"`
	MerchantName string    `json:"merchant_name"`
	Description  string    `json:"description,omitempty"`
	Memo         string    `json:"memo,omitempty"`
	PostedAt     time.Time `json:"posted_at"`
}

// TransactionPage is one page of a cursor-paginated transaction listing.
// An empty NextCursor means no more pages.
type TransactionPage struct {
	Items      []Transaction
	NextCursor string
}

// TransactionFetcher pages through the card-transactions provider.
type TransactionFetcher interface {
	ListTransactions(ctx context.Context, cursor string, start, end *time.Time) (*TransactionPage, error)
}

// EventExpenses is the at-most-one-per-(event,user) expense summary.
// swagger:model EventExpenses
type EventExpenses struct {
	ID         string          `json:"id"`
	EventID    string          `json:"event_id"`
	UserID     string          `json:"user_id"`
	TotalCents int64           `json:"total_cents"`
	TxnCount   int             `json:"txn_count"`
	Raw        json.RawMessage `json:"raw,omitempty"`
	PulledAt   time.Time       `json:"pulled_at"`
}

// ExpenseRepository defines storage operations for expense summaries.
type ExpenseRepository interface {
	Upsert(ctx context.Context, e *EventExpenses) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*EventExpenses, error)
}

// ExpenseSummary is the caller-facing result of an expense pull.
type ExpenseSummary struct {
	EventID          string `json:"event_id"`
	TotalCents       int64  `json:"total_cents"`
	TxnCount         int    `json:"transaction_count"`
	AttendeeCount    int    `json:"attendee_count"`
	CostPerLeadCents int64  `json:"cost_per_lead"`
}

// ExpenseService pulls and aggregates event expenses.
type ExpenseService interface {
	PullExpenses(ctx context.Context, userID, eventID string, start, end *time.Time) (*ExpenseSummary, error)
	GetSummary(ctx context.Context, eventID, userID string) (*EventExpenses, error)
}
