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

type notificationService struct {
	attendeeRepo     domain.AttendeeRepository
	enrichmentRepo   domain.EnrichmentRepository
	scoreRepo        domain.LeadScoreRepository
	notificationRepo domain.NotificationRepository
	notifier         domain.Notifier
	channel          string
	destination      string
	cooldown         time.Duration
	logger           *slog.Logger
}

// NewNotificationService creates the key-lead alert dispatcher. cooldown
// suppresses repeat alerts for the same attendee; zero disables the guard.
func NewNotificationService(
	attendeeRepo domain.AttendeeRepository,
	enrichmentRepo domain.EnrichmentRepository,
	scoreRepo domain.LeadScoreRepository,
	notificationRepo domain.NotificationRepository,
	notifier domain.Notifier,
	channel, destination string,
	cooldown time.Duration,
	logger *slog.Logger,
) domain.NotificationService {
	return &notificationService{
		attendeeRepo:     attendeeRepo,
		enrichmentRepo:   enrichmentRepo,
		scoreRepo:        scoreRepo,
		notificationRepo: notificationRepo,
		notifier:         notifier,
		channel:          channel,
		destination:      destination,
		cooldown:         cooldown,
		logger:           logger,
	}
}

func (s *notificationService) Dispatch(ctx context.Context, attendeeID string, force bool) (*domain.DispatchResult, error) {
	// Fresh reads: never act on state passed in by the caller.
	attendee, err := s.attendeeRepo.GetByID(ctx, attendeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}

	leadScore, err := s.scoreRepo.GetByAttendeeID(ctx, attendeeID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get lead score: %w", err)
	}
	if leadScore == nil || !leadScore.IsKeyLead {
		metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		return &domain.DispatchResult{Sent: false, Skipped: "not a key lead"}, nil
	}

	if !force && s.cooldown > 0 && leadScore.NotifiedAt != nil && time.Since(*leadScore.NotifiedAt) < s.cooldown {
		metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		return &domain.DispatchResult{Sent: false, Skipped: "recently notified"}, nil
	}

	enrichment, err := s.enrichmentRepo.GetByAttendeeID(ctx, attendeeID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("get enrichment for notification failed", "attendee_id", attendeeID, "err", err)
	}

	message := composeAlert(attendee, enrichment, leadScore)

	// Delivery is best-effort: a provider failure still records the attempt
	// and the overall dispatch succeeds with Sent=false.
	now := time.Now().UTC()
	ref, sendErr := s.notifier.Send(ctx, s.channel, s.destination, message)
	sent := sendErr == nil
	if sendErr != nil {
		metrics.ProviderFailuresTotal.WithLabelValues("notify").Inc()
		s.logger.Warn("notification delivery failed", "attendee_id", attendeeID, "err", sendErr)
	}

	notification := &domain.Notification{
		AttendeeID:  &attendee.ID,
		Channel:     s.channel,
		Destination: s.destination,
		Message:     message,
		SentAt:      now,
	}
	if sent && ref != "" {
		notification.ExternalRef = &ref
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Error("store notification failed", "attendee_id", attendeeID, "err", err)
	}

	result := &domain.DispatchResult{Sent: sent}
	if sent {
		metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		if ref != "" {
			result.Ref = &ref
		}
		if err := s.scoreRepo.MarkNotified(ctx, attendee.ID, ref, now); err != nil {
			s.logger.Error("mark notified failed", "attendee_id", attendeeID, "err", err)
		}
	} else {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
	}
	return result, nil
}

// composeAlert renders the sales alert. Optional fields are omitted rather
// than rendered empty.
func composeAlert(attendee *domain.Attendee, enrichment *domain.Enrichment, leadScore *domain.LeadScore) string {
	var person domain.PersonData
	var company domain.CompanyData
	if enrichment != nil {
		if len(enrichment.PersonJSON) > 0 {
			_ = json.Unmarshal(enrichment.PersonJSON, &person)
		}
		// Firmographic data wins over the person provider's company sub-record.
		companyJSON := enrichment.MixRankJSON
		if len(companyJSON) == 0 {
			companyJSON = enrichment.CompanyJSON
		}
		if len(companyJSON) > 0 {
			_ = json.Unmarshal(companyJSON, &company)
		}
	}

	title := "Not specified"
	if attendee.Title != nil && *attendee.Title != "" {
		title = *attendee.Title
	} else if person.Title != "" {
		title = person.Title
	}
	companyName := "Not specified"
	if attendee.Company != nil && *attendee.Company != "" {
		companyName = *attendee.Company
	} else if company.Name != "" {
		companyName = company.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚀 **High-Value Event Lead Alert**\n\n")
	fmt.Fprintf(&b, "**%s** just registered for %s!\n\n", attendee.Name, attendee.EventID)
	fmt.Fprintf(&b, "**Details:**\n")
	fmt.Fprintf(&b, "• Title: %s\n", title)
	fmt.Fprintf(&b, "• Company: %s\n", companyName)
	fmt.Fprintf(&b, "• Email: %s\n", attendee.Email)
	fmt.Fprintf(&b, "• Lead Score: %d/10 ⭐\n\n", leadScore.Score)
	fmt.Fprintf(&b, "**Why this lead matters:**\n%s\n", leadScore.Reason)

	var intel []string
	if company.EmployeeCount > 0 {
		intel = append(intel, fmt.Sprintf("• Size: %d employees", company.EmployeeCount))
	}
	if company.Industry != "" {
		intel = append(intel, fmt.Sprintf("• Industry: %s", company.Industry))
	}
	if company.Revenue != "" {
		intel = append(intel, fmt.Sprintf("• Revenue: %s", company.Revenue))
	}
	if len(intel) > 0 {
		fmt.Fprintf(&b, "\n**Company Intel:**\n%s\n", strings.Join(intel, "\n"))
	}

	fmt.Fprintf(&b, "\n**Next Steps:**\n")
	fmt.Fprintf(&b, "• Follow up within 24 hours for best results\n")
	fmt.Fprintf(&b, "• Personalize outreach using company intel above\n")
	fmt.Fprintf(&b, "• Schedule demo/meeting while event excitement is high")
	return b.String()
}
