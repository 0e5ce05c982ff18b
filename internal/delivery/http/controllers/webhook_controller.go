package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventintel/internal/delivery/http/helpers"
	"eventintel/internal/delivery/http/middleware"
	"eventintel/internal/domain"
)

type WebhookController struct {
	Logger  *slog.Logger
	Service domain.IntakeService
}

func NewWebhookController(logger *slog.Logger, svc domain.IntakeService) *WebhookController {
	return &WebhookController{
		Logger:  logger,
		Service: svc,
	}
}

// RegistrationRequest is the request body for POST /webhooks/registration.
type RegistrationRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Company        string `json:"company,omitempty"`
	Title          string `json:"title,omitempty"`
	EventID        string `json:"event_id,omitempty"`
	RegistrationID string `json:"registration_id,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
}

// Validate implements helpers.Validator.
func (r *RegistrationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(r.Email)
	if email == "" {
		errs = append(errs, "email is required")
	} else if !strings.Contains(email, "@") {
		errs = append(errs, "email is invalid")
	}
	if r.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, r.Timestamp); err != nil {
			errs = append(errs, "timestamp must be RFC3339")
		}
	}
	return errs
}

// RegistrationResponse is the success payload for POST /webhooks/registration.
type RegistrationResponse struct {
	Success    bool   `json:"success"`
	AttendeeID string `json:"attendee_id"`
}

// Receive godoc
// @Summary Receive a registration webhook
// @Description Validates the registration payload, persists a new attendee owned by the caller, and triggers the enrichment pipeline. Enrichment failures never fail the webhook.
// @Tags webhooks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body controllers.RegistrationRequest true "Registration payload"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /webhooks/registration [post]
func (c *WebhookController) Receive(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	payload := domain.RegistrationPayload{
		Name:  req.Name,
		Email: req.Email,
	}
	if req.Company != "" {
		payload.Company = &req.Company
	}
	if req.Title != "" {
		payload.Title = &req.Title
	}
	if req.EventID != "" {
		payload.EventID = &req.EventID
	}
	if req.RegistrationID != "" {
		payload.RegistrationID = &req.RegistrationID
	}
	if req.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			payload.RegisteredAt = &ts
		}
	}

	attendee, err := c.Service.Register(r.Context(), userID, payload)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, RegistrationResponse{
		Success:    true,
		AttendeeID: attendee.ID,
	})
}
