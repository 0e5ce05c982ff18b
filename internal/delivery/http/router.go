package http

import (
	"database/sql"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventintel/internal/delivery/http/controllers"
	"eventintel/internal/delivery/http/helpers"
	"eventintel/internal/delivery/http/middleware"
	"eventintel/internal/domain"
	"eventintel/internal/metrics"
)

// Controllers bundles the route handlers for NewRouter.
type Controllers struct {
	Webhook      *controllers.WebhookController
	Enrichment   *controllers.EnrichmentController
	Notification *controllers.NotificationController
	Expense      *controllers.ExpenseController
	Attendee     *controllers.AttendeeController
}

// NewRouter initializes the HTTP router with all application routes.
// Everything except /healthz, /metrics, and /swagger/ requires a Bearer token.
func NewRouter(c Controllers, verifier domain.TokenVerifier, db *sql.DB, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Intake and pipeline
	mux.HandleFunc("POST /webhooks/registration", auth(c.Webhook.Receive))
	mux.HandleFunc("POST /enrich", auth(c.Enrichment.Trigger))
	mux.HandleFunc("POST /notifications/dispatch", auth(c.Notification.Dispatch))
	mux.HandleFunc("POST /expenses/pull", auth(c.Expense.Pull))

	// Reads
	mux.HandleFunc("GET /attendees/{attendeeID}", auth(c.Attendee.Get))
	mux.HandleFunc("DELETE /attendees/{attendeeID}", auth(c.Attendee.Delete))
	mux.HandleFunc("GET /attendees/{attendeeID}/notifications", auth(c.Attendee.ListNotifications))
	mux.HandleFunc("GET /events/{eventID}/attendees", auth(c.Attendee.ListByEvent))
	mux.HandleFunc("GET /events/{eventID}/expenses", auth(c.Expense.Get))

	// Operational
	mux.HandleFunc("GET /healthz", healthz(db))
	mux.Handle("GET /metrics", metrics.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

func healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "database unreachable")
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
