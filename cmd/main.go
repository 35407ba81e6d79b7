package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mayonesio/disckatus-tournaments-sub000/config"
	"github.com/Mayonesio/disckatus-tournaments-sub000/db"
	"github.com/Mayonesio/disckatus-tournaments-sub000/handlers"
	"github.com/Mayonesio/disckatus-tournaments-sub000/middleware"
	"github.com/Mayonesio/disckatus-tournaments-sub000/realtime"
	"github.com/Mayonesio/disckatus-tournaments-sub000/repositories"
	api "github.com/Mayonesio/disckatus-tournaments-sub000/routes"
	"github.com/Mayonesio/disckatus-tournaments-sub000/services"
	"github.com/Mayonesio/disckatus-tournaments-sub000/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

// schedulerInterval is how often tournament statuses are reconciled with
// their scheduling windows.
const schedulerInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Photo storage is optional; the service runs without it.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, photo uploads disabled")
	}

	hub := realtime.NewHub(logger)
	go hub.Run()
	logger.Info("realtime hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	logger.Info("repositories initialized")

	notifier := services.NewLogNotifier(logger)
	authService := services.NewAuthService(userRepo)
	playerService := services.NewPlayerService(playerRepo, registrationRepo, uploader)
	tournamentService := services.NewTournamentService(tournamentRepo, logger)
	registrationService := services.NewRegistrationService(
		registrationRepo,
		tournamentRepo,
		playerRepo,
		uploader,
		hub,
		notifier,
		logger,
	)
	dashboardService := services.NewDashboardService(playerRepo, tournamentRepo, registrationRepo)
	logger.Info("services initialized")

	// Reconcile tournament statuses once at startup, then on a ticker.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("tournament status scheduler started", slog.Duration("interval", schedulerInterval))

		if err := tournamentService.AutoUpdateStatusesByDates(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := tournamentService.AutoUpdateStatusesByDates(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.JWTSecretKey))
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	playerHandler := handlers.NewPlayerHandler(playerService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	webSocketHandler := handlers.NewWebSocketHandler(hub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authMiddleware,
		cfg.CORSAllowedOrigins,
		authHandler,
		playerHandler,
		tournamentHandler,
		registrationHandler,
		dashboardHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
