package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	httpapi "interviewdesk-backend/internal/api/http"
	"interviewdesk-backend/internal/config"
	"interviewdesk-backend/internal/logger"
	"interviewdesk-backend/internal/meeting"
	"interviewdesk-backend/internal/repository/postgres"
	"interviewdesk-backend/internal/security"
	"interviewdesk-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting InterviewDesk Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "site_domain", cfg.Server.SiteDomain)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.Scheduling.Secret)

	// Initialize Meeting Provider
	var meetingProvider meeting.Provider
	if cfg.Google.Mock {
		logger.Info("Using mock meeting provider")
		meetingProvider = meeting.NewMockProvider()
	} else {
		provider, err := meeting.NewGoogleCalendarProvider(context.Background(), cfg.Google.CredentialsFile, cfg.Google.CalendarID)
		if err != nil {
			logger.Error("Failed to initialize Google Calendar provider", "error", err)
			log.Fatalf("Failed to initialize Google Calendar provider: %v", err)
		}
		meetingProvider = provider
	}

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.SendGrid.APIKey == "" {
		logger.Info("SendGrid API key not set, emails will be logged only")
		emailSvc = service.NewNoopEmailService()
	} else {
		emailSvc = service.NewSendGridEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail,
			cfg.SendGrid.FromName, cfg.Scheduling.OfferExpiryMinutes)
	}

	// Initialize Services
	availabilitySvc := service.NewAvailabilityService(store, cfg.Scheduling)
	creditSvc := service.NewCreditService(store, cfg.Credits)
	schedulingSvc := service.NewSchedulingService(store, meetingProvider, emailSvc, tokenManager, cfg)
	feedbackSvc := service.NewFeedbackService(store, emailSvc, cfg)
	billingSvc := service.NewBillingService(store)

	// Initialize HTTP handlers
	handlers := httpapi.NewHandlers(availabilitySvc, schedulingSvc, creditSvc, feedbackSvc, billingSvc, cfg.Debug)

	router := mux.NewRouter()
	handlers.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
