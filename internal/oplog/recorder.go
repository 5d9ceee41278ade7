package oplog

import (
	"context"
	"log/slog"
)

// Recorder lets other modules append operation log entries without failing
// the surrounding request when the write does not succeed.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

// NewRecorder constructs a Recorder.
func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record appends an entry, logging instead of propagating failures.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || e.Action == "" {
		return
	}
	if err := r.repo.Insert(ctx, e); err != nil {
		r.logger.Warn("record operation log", slog.String("action", e.Action), slog.Any("error", err))
	}
}
