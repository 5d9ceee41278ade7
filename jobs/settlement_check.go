package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/retour-ops/retour/internal/tracking"
)

// SettlementCheckJob runs the tracking-silence sweep: every non-refunded
// settlement record whose last tracking event is old enough moves to
// no_tracking.
type SettlementCheckJob struct {
	Service *tracking.Service
	Logger  *slog.Logger
}

// NewSettlementCheckJob initialises the sweep handler.
func NewSettlementCheckJob(service *tracking.Service, logger *slog.Logger) *SettlementCheckJob {
	return &SettlementCheckJob{Service: service, Logger: logger}
}

// Handle executes the sweep.
func (j *SettlementCheckJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("settlement check: handler not configured")
	}

	logger := j.logger()
	start := time.Now()
	logger.Info("starting settlement sweep")

	updated, err := j.Service.CheckNoTracking(ctx)
	if err != nil {
		logger.Error("settlement sweep failed", slog.Any("error", err))
		return err
	}

	logger.Info("completed settlement sweep",
		slog.Int64("updated", updated),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *SettlementCheckJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskSettlementCheck))
	}
	return slog.Default().With(slog.String("job", TaskSettlementCheck))
}
