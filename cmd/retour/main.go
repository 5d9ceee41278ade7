package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/retour-ops/retour/internal/app"
	"github.com/retour-ops/retour/internal/auth"
	"github.com/retour-ops/retour/internal/cn23"
	"github.com/retour-ops/retour/internal/countries"
	"github.com/retour-ops/retour/internal/customers"
	"github.com/retour-ops/retour/internal/observability"
	"github.com/retour-ops/retour/internal/oplog"
	"github.com/retour-ops/retour/internal/platform/db"
	"github.com/retour-ops/retour/internal/quotations"
	"github.com/retour-ops/retour/internal/shared"
	"github.com/retour-ops/retour/internal/shipments"
	"github.com/retour-ops/retour/internal/tracking"
	"github.com/retour-ops/retour/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("redis ping", slog.Any("error", err))
		os.Exit(1)
	}

	sessions := shared.NewSessionManager(redisClient, "retour_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	metrics := observability.NewMetrics()

	oplogRepo := oplog.NewRepository(pool)
	recorder := oplog.NewRecorder(oplogRepo, logger)

	authService := auth.NewService(auth.NewRepository(pool), logger, cfg.AuthFallbackLogins && !cfg.IsProduction())
	customersService := customers.NewService(customers.NewRepository(pool), recorder)
	shipmentsService := shipments.NewService(shipments.NewRepository(pool), logger)
	quotationsService := quotations.NewService(quotations.NewRepository(pool), recorder)
	trackingService := tracking.NewService(tracking.NewRepository(pool), recorder)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessions,
		AuthHandler:       auth.NewHandler(logger, authService, sessions),
		CustomersHandler:  customers.NewHandler(logger, customersService),
		ShipmentsHandler:  shipments.NewHandler(logger, shipmentsService),
		CountriesHandler:  countries.NewHandler(logger, countries.NewRepository(pool)),
		CN23Handler:       cn23.NewHandler(logger, cn23.NewRepository(pool)),
		QuotationsHandler: quotations.NewHandler(logger, quotationsService),
		TrackingHandler:   tracking.NewHandler(logger, trackingService),
		LogsHandler:       oplog.NewHandler(logger, oplogRepo),
		JobHandler:        jobs.NewHandler(inspector, logger),
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
