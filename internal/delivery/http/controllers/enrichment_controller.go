package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventintel/internal/delivery/http/helpers"
	"eventintel/internal/domain"
)

type EnrichmentController struct {
	Logger  *slog.Logger
	Service domain.EnrichmentService
}

func NewEnrichmentController(logger *slog.Logger, svc domain.EnrichmentService) *EnrichmentController {
	return &EnrichmentController{
		Logger:  logger,
		Service: svc,
	}
}

// EnrichRequest is the request body for POST /enrich. Either attendee_id or
// inline lead data (name + email) must be provided.
type EnrichRequest struct {
	AttendeeID string `json:"attendee_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Company    string `json:"company,omitempty"`
}

// Validate implements helpers.Validator.
func (r *EnrichRequest) Validate() []string {
	if strings.TrimSpace(r.AttendeeID) != "" {
		return nil
	}
	if strings.TrimSpace(r.Name) != "" && strings.TrimSpace(r.Email) != "" {
		return nil
	}
	return []string{"attendee_id or name and email are required"}
}

// EnrichResponse is the success payload for POST /enrich.
type EnrichResponse struct {
	Success          bool                 `json:"success"`
	AttendeeID       string               `json:"attendee_id,omitempty"`
	Score            int                  `json:"score"`
	IsKeyLead        bool                 `json:"is_key_lead"`
	Enriched         domain.EnrichedFlags `json:"enriched"`
	Persisted        bool                 `json:"persisted"`
	NotificationSent bool                 `json:"notification_sent"`
}

// Trigger godoc
// @Summary Run the enrichment-and-scoring pipeline
// @Description Enriches and scores an attendee by id, or ad-hoc lead data inline (without persistence). Provider failures degrade the result instead of failing the request.
// @Tags enrichment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body controllers.EnrichRequest true "Attendee id or inline lead data"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /enrich [post]
func (c *EnrichmentController) Trigger(w http.ResponseWriter, r *http.Request) {
	var req EnrichRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	var result *domain.EnrichmentResult
	var err error
	if strings.TrimSpace(req.AttendeeID) != "" {
		result, err = c.Service.EnrichAndScore(r.Context(), strings.TrimSpace(req.AttendeeID))
	} else {
		result, err = c.Service.EnrichInline(r.Context(), domain.LeadQuery{
			Name:    strings.TrimSpace(req.Name),
			Email:   strings.TrimSpace(req.Email),
			Company: strings.TrimSpace(req.Company),
		})
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "attendee not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, EnrichResponse{
		Success:          true,
		AttendeeID:       result.AttendeeID,
		Score:            result.Score,
		IsKeyLead:        result.IsKeyLead,
		Enriched:         result.Enriched,
		Persisted:        result.Persisted,
		NotificationSent: result.NotificationSent,
	})
}
