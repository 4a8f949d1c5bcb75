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

	"github.com/Dosada05/esports-tracker/config"
	"github.com/Dosada05/esports-tracker/db"
	"github.com/Dosada05/esports-tracker/handlers"
	"github.com/Dosada05/esports-tracker/metrics"
	"github.com/Dosada05/esports-tracker/repositories"
	api "github.com/Dosada05/esports-tracker/routes"
	"github.com/Dosada05/esports-tracker/scheduler"
	"github.com/Dosada05/esports-tracker/services"
	"github.com/Dosada05/esports-tracker/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("log_level", cfg.LogLevel.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectTimeout, logger)
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

	if err := db.EnsureSchema(ctx, dbConn); err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database ready")

	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("R2 is not configured, logo uploads are disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(dbConn, "tracker"),
	)
	m := metrics.New(registry)

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	tournamentTeamRepo := repositories.NewPostgresTournamentTeamRepository(dbConn)
	stageRepo := repositories.NewPostgresStageRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	personRepo := repositories.NewPostgresPersonRepository(dbConn)
	heroRepo := repositories.NewPostgresHeroRepository(dbConn)
	seriesRepo := repositories.NewPostgresSeriesRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	teamStatRepo := repositories.NewPostgresTeamGameStatRepository(dbConn)
	playerStatRepo := repositories.NewPostgresPlayerGameStatRepository(dbConn)
	draftRepo := repositories.NewPostgresDraftActionRepository(dbConn)
	membershipRepo := repositories.NewPostgresMembershipRepository(dbConn)

	tx := services.NewTransactor(dbConn, logger)
	recomputer := services.NewRecomputer(seriesRepo, gameRepo, teamStatRepo, m, logger)

	seriesService := services.NewSeriesService(tx, seriesRepo, stageRepo, tournamentTeamRepo, gameRepo, teamStatRepo, draftRepo, recomputer, logger)
	statsService := services.NewStatsService(tx, seriesRepo, gameRepo, teamStatRepo, playerStatRepo, draftRepo, membershipRepo, heroRepo, recomputer, logger)
	membershipService := services.NewMembershipService(tx, personRepo, teamRepo, membershipRepo, logger)
	tournamentService := services.NewTournamentService(tx, tournamentRepo, tournamentTeamRepo, stageRepo, teamRepo, uploader, m, logger)
	queryService := services.NewQueryService(
		tournamentRepo, tournamentTeamRepo, stageRepo, seriesRepo, gameRepo,
		teamStatRepo, playerStatRepo, draftRepo, teamRepo, uploader, logger,
	)

	if cfg.StatusSweepInterval > 0 {
		sweep, err := scheduler.StartStatusSweep(ctx, tournamentService, cfg.StatusSweepInterval, logger)
		if err != nil {
			logger.Error("failed to start status sweep", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := sweep.Shutdown(); err != nil {
				logger.Error("status sweep shutdown failed", slog.Any("error", err))
			}
		}()
	} else {
		logger.Warn("status sweep disabled")
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Tournaments: handlers.NewTournamentHandler(tournamentService, queryService),
		Series:      handlers.NewSeriesHandler(seriesService, queryService),
		Stats:       handlers.NewStatsHandler(statsService),
		Memberships: handlers.NewMembershipHandler(membershipService),
		Teams:       handlers.NewTeamHandler(queryService),
	}, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Gatherer:       registry,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

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
