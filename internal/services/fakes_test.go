package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eventintel/internal/domain"
)

// fakeAttendeeRepo is an in-memory AttendeeRepository for tests.
type fakeAttendeeRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Attendee
	nextID    int
	createErr error
	countErr  error
}

func newFakeAttendeeRepo() *fakeAttendeeRepo {
	return &fakeAttendeeRepo{byID: map[string]*domain.Attendee{}, nextID: 1}
}

func (f *fakeAttendeeRepo) Create(ctx context.Context, a *domain.Attendee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	a.ID = fmt.Sprintf("att-%d", f.nextID)
	f.nextID++
	a.CreatedAt = time.Now().UTC()
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAttendeeRepo) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAttendeeRepo) ListByEventID(ctx context.Context, eventID, userID string) ([]*domain.Attendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Attendee
	for _, a := range f.byID {
		if a.EventID == eventID && a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendeeRepo) CountByEventID(ctx context.Context, eventID, userID string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	list, _ := f.ListByEventID(ctx, eventID, userID)
	return len(list), nil
}

func (f *fakeAttendeeRepo) Delete(ctx context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeEnrichmentRepo preserves previously stored blobs on upsert, matching the
// repository contract.
type fakeEnrichmentRepo struct {
	byAttendee map[string]*domain.Enrichment
	upsertErr  error
	upserts    int
}

func newFakeEnrichmentRepo() *fakeEnrichmentRepo {
	return &fakeEnrichmentRepo{byAttendee: map[string]*domain.Enrichment{}}
}

func (f *fakeEnrichmentRepo) Upsert(ctx context.Context, e *domain.Enrichment) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	if prev, ok := f.byAttendee[e.AttendeeID]; ok {
		if e.PersonJSON == nil {
			e.PersonJSON = prev.PersonJSON
		}
		if e.CompanyJSON == nil {
			e.CompanyJSON = prev.CompanyJSON
		}
		if e.MixRankJSON == nil {
			e.MixRankJSON = prev.MixRankJSON
		}
	}
	f.byAttendee[e.AttendeeID] = e
	return nil
}

func (f *fakeEnrichmentRepo) GetByAttendeeID(ctx context.Context, attendeeID string) (*domain.Enrichment, error) {
	e, ok := f.byAttendee[attendeeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// fakeLeadScoreRepo keeps notification bookkeeping fields out of Upsert,
// matching the repository contract.
type fakeLeadScoreRepo struct {
	byAttendee map[string]*domain.LeadScore
	upsertErr  error
	markErr    error
}

func newFakeLeadScoreRepo() *fakeLeadScoreRepo {
	return &fakeLeadScoreRepo{byAttendee: map[string]*domain.LeadScore{}}
}

func (f *fakeLeadScoreRepo) Upsert(ctx context.Context, s *domain.LeadScore) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if prev, ok := f.byAttendee[s.AttendeeID]; ok {
		s.NotifiedAt = prev.NotifiedAt
		s.NotificationRef = prev.NotificationRef
		s.SalesRepID = prev.SalesRepID
	}
	s.UpdatedAt = time.Now().UTC()
	f.byAttendee[s.AttendeeID] = s
	return nil
}

func (f *fakeLeadScoreRepo) GetByAttendeeID(ctx context.Context, attendeeID string) (*domain.LeadScore, error) {
	s, ok := f.byAttendee[attendeeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeLeadScoreRepo) MarkNotified(ctx context.Context, attendeeID, ref string, at time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	s, ok := f.byAttendee[attendeeID]
	if !ok {
		return domain.ErrNotFound
	}
	s.NotifiedAt = &at
	if ref != "" {
		s.NotificationRef = &ref
	} else {
		s.NotificationRef = nil
	}
	return nil
}

type fakeNotificationRepo struct {
	rows      []*domain.Notification
	createErr error
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = fmt.Sprintf("ntf-%d", len(f.rows)+1)
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeNotificationRepo) ListByAttendeeID(ctx context.Context, attendeeID string) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range f.rows {
		if n.AttendeeID != nil && *n.AttendeeID == attendeeID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakePersonEnricher struct {
	data  *domain.PersonData
	err   error
	calls int
}

func (f *fakePersonEnricher) EnrichLead(ctx context.Context, q domain.LeadQuery) (*domain.PersonData, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeCompanyEnricher struct {
	byDomain    *domain.CompanyData
	byName      *domain.CompanyData
	err         error
	domainCalls []string
	nameCalls   []string
}

func (f *fakeCompanyEnricher) CompanyByDomain(ctx context.Context, companyDomain string) (*domain.CompanyData, error) {
	f.domainCalls = append(f.domainCalls, companyDomain)
	if f.err != nil {
		return nil, f.err
	}
	return f.byDomain, nil
}

func (f *fakeCompanyEnricher) CompanyByName(ctx context.Context, name string) (*domain.CompanyData, error) {
	f.nameCalls = append(f.nameCalls, name)
	if f.err != nil {
		return nil, f.err
	}
	return f.byName, nil
}

type fakeNotifier struct {
	ref      string
	err      error
	messages []string
}

func (f *fakeNotifier) Send(ctx context.Context, channel, destination, message string) (string, error) {
	f.messages = append(f.messages, message)
	if f.err != nil {
		return "", f.err
	}
	return f.ref, nil
}

// fakeDispatcher stands in for the notification service inside the
// enrichment pipeline.
type fakeDispatcher struct {
	result *domain.DispatchResult
	err    error
	calls  []string
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, attendeeID string, force bool) (*domain.DispatchResult, error) {
	f.calls = append(f.calls, attendeeID)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &domain.DispatchResult{Sent: true}, nil
}

// fakeEnricher stands in for the enrichment pipeline inside intake. done is
// signalled on every call so async triggers can be awaited.
type fakeEnricher struct {
	mu    sync.Mutex
	err   error
	calls []string
	done  chan struct{}
}

func newFakeEnricher() *fakeEnricher {
	return &fakeEnricher{done: make(chan struct{}, 8)}
}

func (f *fakeEnricher) EnrichAndScore(ctx context.Context, attendeeID string) (*domain.EnrichmentResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, attendeeID)
	err := f.err
	f.mu.Unlock()
	f.done <- struct{}{}
	if err != nil {
		return nil, err
	}
	return &domain.EnrichmentResult{AttendeeID: attendeeID}, nil
}

func (f *fakeEnricher) EnrichInline(ctx context.Context, q domain.LeadQuery) (*domain.EnrichmentResult, error) {
	return &domain.EnrichmentResult{}, nil
}

// fakeFetcher serves scripted transaction pages. Once the script runs out it
// returns err when set, loops the last page forever when loop is true, and
// otherwise ends pagination with an empty page.
type fakeFetcher struct {
	pages []domain.TransactionPage
	err   error
	loop  bool
	calls int
}

func (f *fakeFetcher) ListTransactions(ctx context.Context, cursor string, start, end *time.Time) (*domain.TransactionPage, error) {
	f.calls++
	idx := f.calls - 1
	if idx >= len(f.pages) {
		if f.err != nil {
			return nil, f.err
		}
		if !f.loop {
			return &domain.TransactionPage{}, nil
		}
		idx = len(f.pages) - 1
	}
	page := f.pages[idx]
	if f.loop {
		page.NextCursor = "more"
	}
	return &page, nil
}

type fakeExpenseRepo struct {
	record    *domain.EventExpenses
	upsertErr error
}

func (f *fakeExpenseRepo) Upsert(ctx context.Context, e *domain.EventExpenses) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	e.ID = "exp-1"
	f.record = e
	return nil
}

func (f *fakeExpenseRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventExpenses, error) {
	if f.record == nil || f.record.EventID != eventID || f.record.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return f.record, nil
}

func strPtr(s string) *string { return &s }
