package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventintel/config"
	"eventintel/internal/adapters/auth"
	"eventintel/internal/adapters/brex"
	"eventintel/internal/adapters/mixrank"
	"eventintel/internal/adapters/notify"
	"eventintel/internal/adapters/sixtyfour"
	delivery "eventintel/internal/delivery/http"
	"eventintel/internal/delivery/http/controllers"
	"eventintel/internal/delivery/http/middleware"
	"eventintel/internal/repository/postgres"
	"eventintel/internal/scoring"
	"eventintel/internal/services"
)

// @title Event Attendee Intelligence API
// @version 1.0
// @description Registration intake, lead enrichment and scoring, key-lead alerts, and event expense tracking.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	logger := config.NewLogger()

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		logger.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Error("schema migration failed", "err", err)
		os.Exit(1)
	}

	attendeeRepo := postgres.NewAttendeeRepository(db)
	enrichmentRepo := postgres.NewEnrichmentRepository(db)
	scoreRepo := postgres.NewLeadScoreRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)

	providerClient := &http.Client{Timeout: cfg.ProviderTimeout}
	personEnricher := sixtyfour.NewClient(providerClient, cfg.SixtyFourAPIKey)
	companyEnricher := mixrank.NewClient(providerClient, cfg.MixRankAPIKey)
	transactionFetcher := brex.NewClient(providerClient, cfg.BrexToken)

	notifier, err := notify.NewNotifier(cfg.Notify, providerClient)
	if err != nil {
		logger.Error("notifier setup failed", "err", err)
		os.Exit(1)
	}

	weights := scoring.DefaultWeights()
	if cfg.KeyLeadThreshold > 0 {
		weights.KeyLeadThreshold = cfg.KeyLeadThreshold
	}

	notificationService := services.NewNotificationService(
		attendeeRepo, enrichmentRepo, scoreRepo, notificationRepo,
		notifier, cfg.Notify.Channel, cfg.Notify.Destination, cfg.NotifyCooldown, logger,
	)
	enrichmentService := services.NewEnrichmentService(
		attendeeRepo, enrichmentRepo, scoreRepo,
		personEnricher, companyEnricher, notificationService, weights, logger,
	)
	intakeService := services.NewIntakeService(attendeeRepo, enrichmentService, logger, cfg.DefaultEventID, cfg.SyncEnrich)
	expenseService := services.NewExpenseService(transactionFetcher, expenseRepo, attendeeRepo, logger)
	attendeeService := services.NewAttendeeService(attendeeRepo, notificationRepo)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	mux := delivery.NewRouter(delivery.Controllers{
		Webhook:      controllers.NewWebhookController(logger, intakeService),
		Enrichment:   controllers.NewEnrichmentController(logger, enrichmentService),
		Notification: controllers.NewNotificationController(logger, notificationService),
		Expense:      controllers.NewExpenseController(logger, expenseService),
		Attendee:     controllers.NewAttendeeController(logger, attendeeService),
	}, verifier, db, logger)

	handler := middleware.CORS(middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
