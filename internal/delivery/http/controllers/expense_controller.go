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

type ExpenseController struct {
	Logger  *slog.Logger
	Service domain.ExpenseService
}

func NewExpenseController(logger *slog.Logger, svc domain.ExpenseService) *ExpenseController {
	return &ExpenseController{
		Logger:  logger,
		Service: svc,
	}
}

// PullExpensesRequest is the request body for POST /expenses/pull.
// Dates use YYYY-MM-DD.
type PullExpensesRequest struct {
	EventID   string `json:"event_id"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// Validate implements helpers.Validator.
func (r *PullExpensesRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.EventID) == "" {
		errs = append(errs, "event_id is required")
	}
	for _, d := range []string{r.StartDate, r.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			errs = append(errs, "dates must be YYYY-MM-DD")
			break
		}
	}
	return errs
}

// PullExpensesResponse is the success payload for POST /expenses/pull.
// TotalSpent is in major currency units; CostPerLead in minor units.
type PullExpensesResponse struct {
	Success          bool    `json:"success"`
	EventID          string  `json:"event_id"`
	TotalSpent       float64 `json:"total_spent"`
	TransactionCount int     `json:"transaction_count"`
	AttendeeCount    int     `json:"attendee_count"`
	CostPerLead      int64   `json:"cost_per_lead"`
}

// Pull godoc
// @Summary Pull event expenses from the card-transactions provider
// @Description Pages through card transactions, filters event-related ones by keyword, persists the per-event summary, and returns the totals with cost-per-lead.
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body controllers.PullExpensesRequest true "Event and optional date range"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /expenses/pull [post]
func (c *ExpenseController) Pull(w http.ResponseWriter, r *http.Request) {
	var req PullExpensesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var start, end *time.Time
	if req.StartDate != "" {
		if ts, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			start = &ts
		}
	}
	if req.EndDate != "" {
		if ts, err := time.Parse("2006-01-02", req.EndDate); err == nil {
			end = &ts
		}
	}

	summary, err := c.Service.PullExpenses(r.Context(), userID, strings.TrimSpace(req.EventID), start, end)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, PullExpensesResponse{
		Success:          true,
		EventID:          summary.EventID,
		TotalSpent:       float64(summary.TotalCents) / 100,
		TransactionCount: summary.TxnCount,
		AttendeeCount:    summary.AttendeeCount,
		CostPerLead:      summary.CostPerLeadCents,
	})
}

// Get godoc
// @Summary Read the persisted expense summary for an event
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/expenses [get]
func (c *ExpenseController) Get(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	record, err := c.Service.GetSummary(r.Context(), eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "expenses not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, record)
}
