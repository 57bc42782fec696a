package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rentora/rentora/internal/auth"
	"github.com/rentora/rentora/internal/config"
	internalhttp "github.com/rentora/rentora/internal/http"
	"github.com/rentora/rentora/internal/maintenance"
	"github.com/rentora/rentora/internal/metrics"
	"github.com/rentora/rentora/internal/presence"
	"github.com/rentora/rentora/internal/repository"
	"github.com/rentora/rentora/internal/service"
)

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := repository.NewDB(repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := repository.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("database ready")

	usersRepo := repository.NewUsersRepository(db)
	credsRepo := repository.NewCredentialsRepository(db)
	sessionsRepo := repository.NewSessionsRepository(db)
	mfaRepo := repository.NewMFASecretsRepository(db)
	propertiesRepo := repository.NewPropertiesRepository(db)
	applicationsRepo := repository.NewApplicationsRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	activityService := service.NewActivityService(logger, activityRepo)
	applicationService := service.NewApplicationService(applicationsRepo, propertiesRepo, usersRepo, activityService)
	propertyService := service.NewPropertyService(propertiesRepo, activityService)

	passwordService := auth.NewPasswordService(db, usersRepo, credsRepo)
	sessionService := auth.NewSessionService(auth.SessionConfig{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		JWTSecret:       []byte(cfg.JWTSecret),
		Issuer:          cfg.JWTIssuer,
	}, sessionsRepo, usersRepo)

	var mfaService *auth.MFAService
	if cfg.HasMFA() {
		key, err := hex.DecodeString(cfg.MFAEncryptionKey)
		if err != nil || len(key) != 32 {
			return fmt.Errorf("MFA_ENCRYPTION_KEY must be 32 hex-encoded bytes")
		}
		mfaService = auth.NewMFAService(auth.MFAConfig{
			Issuer:        cfg.JWTIssuer,
			EncryptionKey: key,
		}, mfaRepo, usersRepo)
		logger.Info("mfa enabled")
	}

	var presenceService *presence.Service
	if cfg.HasRedis() {
		presenceService, err = presence.New(presence.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			TTL:      cfg.PresenceTTL,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer presenceService.Close()
		logger.Info("presence enabled", "addr", cfg.RedisAddr)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	runner := maintenance.NewRunner(logger, sessionsRepo, activityRepo, maintenance.Config{
		ActivityRetention: cfg.ActivityRetention,
	})
	if err := runner.Start(); err != nil {
		return fmt.Errorf("start maintenance: %w", err)
	}
	defer runner.Stop()

	router := internalhttp.NewRouter(internalhttp.RouterConfig{
		Logger:       logger,
		Config:       cfg,
		DB:           db,
		Users:        usersRepo,
		Passwords:    passwordService,
		Sessions:     sessionService,
		MFA:          mfaService,
		Applications: applicationService,
		Properties:   propertyService,
		Activity:     activityService,
		Presence:     presenceService,
		Metrics:      m,
		Registry:     registry,
	})

	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
