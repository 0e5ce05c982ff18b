package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"eventintel/internal/domain"
	"eventintel/internal/metrics"
	"eventintel/internal/scoring"
)

type enrichmentService struct {
	attendeeRepo    domain.AttendeeRepository
	enrichmentRepo  domain.EnrichmentRepository
	scoreRepo       domain.LeadScoreRepository
	personEnricher  domain.PersonEnricher
	companyEnricher domain.CompanyEnricher
	notifier        domain.NotificationService
	weights         scoring.Weights
	logger          *slog.Logger
}

// NewEnrichmentService creates the enrichment-and-scoring orchestrator.
// notifier may be nil, in which case key leads are scored but not dispatched.
func NewEnrichmentService(
	attendeeRepo domain.AttendeeRepository,
	enrichmentRepo domain.EnrichmentRepository,
	scoreRepo domain.LeadScoreRepository,
	personEnricher domain.PersonEnricher,
	companyEnricher domain.CompanyEnricher,
	notifier domain.NotificationService,
	weights scoring.Weights,
	logger *slog.Logger,
) domain.EnrichmentService {
	return &enrichmentService{
		attendeeRepo:    attendeeRepo,
		enrichmentRepo:  enrichmentRepo,
		scoreRepo:       scoreRepo,
		personEnricher:  personEnricher,
		companyEnricher: companyEnricher,
		notifier:        notifier,
		weights:         weights,
		logger:          logger,
	}
}

func (s *enrichmentService) EnrichAndScore(ctx context.Context, attendeeID string) (*domain.EnrichmentResult, error) {
	attendee, err := s.attendeeRepo.GetByID(ctx, attendeeID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}

	person, firmographic := s.enrich(ctx, attendee)

	result := &domain.EnrichmentResult{
		AttendeeID: attendee.ID,
		Enriched: domain.EnrichedFlags{
			Person:  person != nil,
			Company: person != nil && person.Company != nil,
			MixRank: firmographic != nil,
		},
		Persisted: true,
	}

	// Persist whatever was obtained. A failed write degrades the result but
	// never stops scoring.
	enrichment := &domain.Enrichment{
		AttendeeID: attendee.ID,
		UserID:     attendee.UserID,
		EnrichedAt: time.Now().UTC(),
	}
	if person != nil {
		enrichment.PersonJSON = person.Raw
		if person.Company != nil {
			enrichment.CompanyJSON = person.Company.Raw
		}
	}
	if firmographic != nil {
		enrichment.MixRankJSON = firmographic.Raw
	}
	if err := s.enrichmentRepo.Upsert(ctx, enrichment); err != nil {
		s.logger.Error("store enrichment failed", "attendee_id", attendee.ID, "err", err)
		result.Persisted = false
	}

	// Scoring is pure and total: it runs no matter what the providers did.
	company := firmographic
	if company == nil && person != nil {
		company = person.Company
	}
	score, reason := scoring.Score(person, company, attendee, s.weights)
	result.Score = score
	result.Reason = reason
	result.IsKeyLead = scoring.IsKeyLead(score, s.weights)

	leadScore := &domain.LeadScore{
		AttendeeID: attendee.ID,
		UserID:     attendee.UserID,
		Score:      score,
		Reason:     reason,
		IsKeyLead:  result.IsKeyLead,
	}
	if err := s.scoreRepo.Upsert(ctx, leadScore); err != nil {
		s.logger.Error("store lead score failed", "attendee_id", attendee.ID, "err", err)
		result.Persisted = false
	}

	if result.IsKeyLead {
		metrics.EnrichmentRunsTotal.WithLabelValues("key_lead").Inc()
		if s.notifier != nil {
			dispatch, err := s.notifier.Dispatch(ctx, attendee.ID, false)
			if err != nil {
				s.logger.Error("key lead notification failed", "attendee_id", attendee.ID, "err", err)
			} else {
				result.NotificationSent = dispatch.Sent
			}
		}
	} else {
		metrics.EnrichmentRunsTotal.WithLabelValues("scored").Inc()
	}

	return result, nil
}

// EnrichInline enriches and scores ad-hoc lead data without touching storage.
func (s *enrichmentService) EnrichInline(ctx context.Context, q domain.LeadQuery) (*domain.EnrichmentResult, error) {
	if q.Name == "" || q.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}
	attendee := &domain.Attendee{Name: q.Name, Email: q.Email}
	if q.Company != "" {
		attendee.Company = &q.Company
	}

	person, firmographic := s.enrich(ctx, attendee)

	company := firmographic
	if company == nil && person != nil {
		company = person.Company
	}
	score, reason := scoring.Score(person, company, attendee, s.weights)

	return &domain.EnrichmentResult{
		Score:     score,
		Reason:    reason,
		IsKeyLead: scoring.IsKeyLead(score, s.weights),
		Enriched: domain.EnrichedFlags{
			Person:  person != nil,
			Company: person != nil && person.Company != nil,
			MixRank: firmographic != nil,
		},
	}, nil
}

// enrich calls both providers concurrently. Each call is independent: a
// failure on one side is logged and downgraded to "no data" for that side.
func (s *enrichmentService) enrich(ctx context.Context, attendee *domain.Attendee) (*domain.PersonData, *domain.CompanyData) {
	var (
		person       *domain.PersonData
		firmographic *domain.CompanyData
		wg           sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		query := domain.LeadQuery{Name: attendee.Name, Email: attendee.Email}
		if attendee.Company != nil {
			query.Company = *attendee.Company
		}
		data, err := s.personEnricher.EnrichLead(ctx, query)
		if err != nil {
			metrics.ProviderFailuresTotal.WithLabelValues("sixtyfour").Inc()
			s.logger.Warn("person enrichment failed", "email", attendee.Email, "err", err)
			return
		}
		person = data
	}()

	go func() {
		defer wg.Done()
		data, err := s.lookupFirmographic(ctx, attendee)
		if err != nil {
			metrics.ProviderFailuresTotal.WithLabelValues("mixrank").Inc()
			s.logger.Warn("firmographic lookup failed", "email", attendee.Email, "err", err)
			return
		}
		firmographic = data
	}()
	wg.Wait()

	return person, firmographic
}

// lookupFirmographic resolves company data by email domain, falling back to a
// name lookup for personal email domains.
func (s *enrichmentService) lookupFirmographic(ctx context.Context, attendee *domain.Attendee) (*domain.CompanyData, error) {
	if !domain.IsPersonalEmailDomain(attendee.Email) {
		return s.companyEnricher.CompanyByDomain(ctx, domain.EmailDomain(attendee.Email))
	}
	if attendee.Company != nil && *attendee.Company != "" {
		return s.companyEnricher.CompanyByName(ctx, *attendee.Company)
	}
	return nil, nil
}
