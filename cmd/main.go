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

	"github.com/ddfilmmaker/AppSchedina-sub000/config"
	"github.com/ddfilmmaker/AppSchedina-sub000/db"
	"github.com/ddfilmmaker/AppSchedina-sub000/handlers"
	"github.com/ddfilmmaker/AppSchedina-sub000/repositories"
	api "github.com/ddfilmmaker/AppSchedina-sub000/routes"
	"github.com/ddfilmmaker/AppSchedina-sub000/services"
	"github.com/ddfilmmaker/AppSchedina-sub000/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// File uploads are optional: without R2 credentials the app runs fine,
	// it just refuses avatar and crest uploads.
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
		logger.Info("file uploads disabled: no R2 credentials configured")
	}

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	matchdayRepo := repositories.NewPostgresMatchdayRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	pickRepo := repositories.NewPostgresPickRepository(dbConn)
	contestRepo := repositories.NewPostgresContestRepository(dbConn)
	manualRepo := repositories.NewPostgresManualPointsRepository(dbConn)
	winnerRepo := repositories.NewPostgresWinnerRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, uploader)
	leagueService := services.NewLeagueService(leagueRepo, manualRepo, uploader)
	matchdayService := services.NewMatchdayService(matchdayRepo, matchRepo, leagueRepo)
	matchService := services.NewMatchService(matchRepo, matchdayRepo, leagueRepo)
	pickService := services.NewPickService(pickRepo, matchRepo, matchdayRepo, leagueRepo)
	contestService := services.NewContestService(contestRepo, leagueRepo)
	leaderboardService := services.NewLeaderboardService(leagueRepo, matchdayRepo, matchRepo, pickRepo, contestRepo, manualRepo)
	winnerService := services.NewWinnerService(winnerRepo, leagueRepo, leaderboardService)

	var emailService *services.EmailService
	if cfg.SMTPHost != "" {
		emailService = services.NewEmailService(cfg)
		logger.Info("email service initialized", slog.String("host", cfg.SMTPHost))
	} else {
		logger.Info("outgoing email disabled: no SMTP host configured")
	}
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(userService)
	leagueHandler := handlers.NewLeagueHandler(leagueService, leaderboardService, winnerService)
	matchdayHandler := handlers.NewMatchdayHandler(matchdayService, matchService)
	matchHandler := handlers.NewMatchHandler(matchService, pickService)
	contestHandler := handlers.NewContestHandler(contestService)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		userHandler,
		leagueHandler,
		matchdayHandler,
		matchHandler,
		contestHandler,
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
