package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventintel/internal/domain"
	"eventintel/internal/metrics"
)

// enrichTriggerTimeout bounds a fire-and-forget pipeline run once the
// webhook response has already gone out.
const enrichTriggerTimeout = 2 * time.Minute

type intakeService struct {
	attendeeRepo   domain.AttendeeRepository
	enricher       domain.EnrichmentService
	logger         *slog.Logger
	defaultEventID string
	syncEnrich     bool
}

// NewIntakeService creates an IntakeService. When syncEnrich is true the
// enrichment pipeline is awaited inside Register; otherwise it runs on a
// detached goroutine and its failures are only logged.
func NewIntakeService(
	attendeeRepo domain.AttendeeRepository,
	enricher domain.EnrichmentService,
	logger *slog.Logger,
	defaultEventID string,
	syncEnrich bool,
) domain.IntakeService {
	return &intakeService{
		attendeeRepo:   attendeeRepo,
		enricher:       enricher,
		logger:         logger,
		defaultEventID: defaultEventID,
		syncEnrich:     syncEnrich,
	}
}

func (s *intakeService) Register(ctx context.Context, userID string, p domain.RegistrationPayload) (*domain.Attendee, error) {
	name := strings.TrimSpace(p.Name)
	email := strings.TrimSpace(p.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: missing caller identity", domain.ErrInvalidInput)
	}

	eventID := s.defaultEventID
	if p.EventID != nil && strings.TrimSpace(*p.EventID) != "" {
		eventID = strings.TrimSpace(*p.EventID)
	}
	registrationID := "reg_" + uuid.NewString()
	if p.RegistrationID != nil && strings.TrimSpace(*p.RegistrationID) != "" {
		registrationID = strings.TrimSpace(*p.RegistrationID)
	}
	registeredAt := time.Now().UTC()
	if p.RegisteredAt != nil {
		registeredAt = *p.RegisteredAt
	}

	attendee := domain.NewAttendee(eventID, registrationID, name, email, userID, p.Company, p.Title, registeredAt)
	if err := s.attendeeRepo.Create(ctx, attendee); err != nil {
		return nil, fmt.Errorf("create attendee: %w", err)
	}
	metrics.RegistrationsTotal.Inc()

	// The enrichment pipeline never blocks registration success: its failures
	// are logged, not re-surfaced to the webhook caller.
	if s.syncEnrich {
		s.runEnrichment(ctx, attendee.ID)
	} else {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), enrichTriggerTimeout)
			defer cancel()
			s.runEnrichment(ctx, attendee.ID)
		}()
	}

	return attendee, nil
}

func (s *intakeService) runEnrichment(ctx context.Context, attendeeID string) {
	if _, err := s.enricher.EnrichAndScore(ctx, attendeeID); err != nil {
		s.logger.Error("enrichment trigger failed", "attendee_id", attendeeID, "err", err)
	}
}
