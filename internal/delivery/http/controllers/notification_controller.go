package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventintel/internal/delivery/http/helpers"
	"eventintel/internal/domain"
)

type NotificationController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

func NewNotificationController(logger *slog.Logger, svc domain.NotificationService) *NotificationController {
	return &NotificationController{
		Logger:  logger,
		Service: svc,
	}
}

// DispatchRequest is the request body for POST /notifications/dispatch.
// force bypasses the re-notification cooldown.
type DispatchRequest struct {
	AttendeeID string `json:"attendee_id"`
	Force      bool   `json:"force,omitempty"`
}

// Validate implements helpers.Validator.
func (r *DispatchRequest) Validate() []string {
	if strings.TrimSpace(r.AttendeeID) == "" {
		return []string{"attendee_id is required"}
	}
	return nil
}

// DispatchResponse is the success payload for POST /notifications/dispatch.
type DispatchResponse struct {
	Success          bool    `json:"success"`
	NotificationSent bool    `json:"notification_sent"`
	SkippedReason    string  `json:"skipped_reason,omitempty"`
	NotificationRef  *string `json:"notification_ref,omitempty"`
}

// Dispatch godoc
// @Summary Dispatch a key-lead notification
// @Description Re-reads the attendee's current lead score and sends a sales alert when it is a key lead. Non-key leads and cooldown hits return success with notification_sent=false; so does a delivery failure, which is still logged as an attempt.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body controllers.DispatchRequest true "Attendee to notify about"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications/dispatch [post]
func (c *NotificationController) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req DispatchRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.Service.Dispatch(r.Context(), strings.TrimSpace(req.AttendeeID), req.Force)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "attendee not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, DispatchResponse{
		Success:          true,
		NotificationSent: result.Sent,
		SkippedReason:    result.Skipped,
		NotificationRef:  result.Ref,
	})
}
