package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventintel/internal/domain"
	"eventintel/internal/metrics"
)

// maxTransactions hard-caps pagination so the pull terminates even when the
// provider never returns an empty cursor.
const maxTransactions = 1000

// expenseKeywords are matched case-insensitively against merchant, memo, and
// description; the event id is always added to the set.
var expenseKeywords = []string{
	"event",
	"conference",
	"meetup",
	"hackathon",
	"catering",
	"venue",
	"av equipment",
	"marketing",
}

type expenseService struct {
	fetcher      domain.TransactionFetcher
	expenseRepo  domain.ExpenseRepository
	attendeeRepo domain.AttendeeRepository
	logger       *slog.Logger
}

// NewExpenseService creates the event expense aggregator.
func NewExpenseService(
	fetcher domain.TransactionFetcher,
	expenseRepo domain.ExpenseRepository,
	attendeeRepo domain.AttendeeRepository,
	logger *slog.Logger,
) domain.ExpenseService {
	return &expenseService{
		fetcher:      fetcher,
		expenseRepo:  expenseRepo,
		attendeeRepo: attendeeRepo,
		logger:       logger,
	}
}

func (s *expenseService) PullExpenses(ctx context.Context, userID, eventID string, start, end *time.Time) (*domain.ExpenseSummary, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%w: event_id is required", domain.ErrInvalidInput)
	}

	transactions := s.fetchAll(ctx, start, end)
	matched := filterTransactions(transactions, eventID)

	var totalCents int64
	for _, t := range matched {
		if t.AmountCents < 0 {
			totalCents -= t.AmountCents
		} else {
			totalCents += t.AmountCents
		}
	}

	now := time.Now().UTC()
	raw, err := json.Marshal(struct {
		Transactions []domain.Transaction `json:"transactions"`
		FetchedAt    time.Time            `json:"fetched_at"`
		TotalScanned int                  `json:"total_transactions_scanned"`
	}{matched, now, len(transactions)})
	if err != nil {
		return nil, fmt.Errorf("encode raw transactions: %w", err)
	}

	record := &domain.EventExpenses{
		EventID:    eventID,
		UserID:     userID,
		TotalCents: totalCents,
		TxnCount:   len(matched),
		Raw:        raw,
		PulledAt:   now,
	}
	if err := s.expenseRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("store expenses: %w", err)
	}
	metrics.ExpensePullsTotal.Inc()

	attendeeCount, err := s.attendeeRepo.CountByEventID(ctx, eventID, userID)
	if err != nil {
		s.logger.Warn("count attendees failed", "event_id", eventID, "err", err)
		attendeeCount = 0
	}

	var costPerLead int64
	if attendeeCount > 0 {
		costPerLead = (totalCents + int64(attendeeCount)/2) / int64(attendeeCount)
	}

	return &domain.ExpenseSummary{
		EventID:          eventID,
		TotalCents:       totalCents,
		TxnCount:         len(matched),
		AttendeeCount:    attendeeCount,
		CostPerLeadCents: costPerLead,
	}, nil
}

func (s *expenseService) GetSummary(ctx context.Context, eventID, userID string) (*domain.EventExpenses, error) {
	record, err := s.expenseRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get expenses: %w", err)
	}
	return record, nil
}

// fetchAll pages through the provider. Provider errors end the loop with
// whatever was collected so far; the cap guarantees termination.
func (s *expenseService) fetchAll(ctx context.Context, start, end *time.Time) []domain.Transaction {
	var all []domain.Transaction
	cursor := ""
	for {
		page, err := s.fetcher.ListTransactions(ctx, cursor, start, end)
		if err != nil {
			metrics.ProviderFailuresTotal.WithLabelValues("brex").Inc()
			s.logger.Warn("fetch transactions failed", "err", err)
			break
		}
		all = append(all, page.Items...)
		if len(all) >= maxTransactions {
			s.logger.Warn("transaction limit reached, stopping pagination", "count", len(all))
			all = all[:maxTransactions]
			break
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	return all
}

func filterTransactions(transactions []domain.Transaction, eventID string) []domain.Transaction {
	keywords := make([]string, 0, len(expenseKeywords)+1)
	keywords = append(keywords, strings.ToLower(eventID))
	keywords = append(keywords, expenseKeywords...)

	var matched []domain.Transaction
	for _, t := range transactions {
		searchText := strings.ToLower(t.Memo + " " + t.Description + " " + t.MerchantName)
		for _, k := range keywords {
			if strings.Contains(searchText, k) {
				matched = append(matched, t)
				break
			}
		}
	}
	return matched
}
