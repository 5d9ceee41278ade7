package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/retour-ops/retour/internal/app"
	"github.com/retour-ops/retour/internal/oplog"
	"github.com/retour-ops/retour/internal/platform/db"
	"github.com/retour-ops/retour/internal/tracking"
	"github.com/retour-ops/retour/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	oplogRepo := oplog.NewRepository(pool)
	recorder := oplog.NewRecorder(oplogRepo, logger)
	trackingService := tracking.NewService(tracking.NewRepository(pool), recorder)

	sweepJob := jobs.NewSettlementCheckJob(trackingService, logger)
	sweepTask := jobs.NewSettlementCheckTask()

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSettlementCheck, Handler: sweepJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
