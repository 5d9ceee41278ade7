package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retour-ops/retour/internal/tracking"
)

type sweepRepo struct {
	updated int64
	err     error
	calls   int
}

func (r *sweepRepo) List(ctx context.Context, f tracking.ListFilter) ([]tracking.ListRow, int64, error) {
	return nil, 0, nil
}

func (r *sweepRepo) GetShipment(ctx context.Context, shipmentID int64) (*tracking.ShipmentInfo, error) {
	return nil, nil
}

func (r *sweepRepo) Events(ctx context.Context, shipmentID int64) ([]tracking.Event, error) {
	return nil, nil
}

func (r *sweepRepo) Settlement(ctx context.Context, shipmentID int64) (*tracking.SettlementRecord, error) {
	return nil, nil
}

func (r *sweepRepo) ShipmentExists(ctx context.Context, shipmentID int64) (bool, error) {
	return false, nil
}

func (r *sweepRepo) AddEvent(ctx context.Context, e tracking.Event) (int64, error) {
	return 0, nil
}

func (r *sweepRepo) SettlementPending(ctx context.Context) ([]tracking.PendingRow, error) {
	return nil, nil
}

func (r *sweepRepo) GenerateRefund(ctx context.Context, shipmentID int64, amount *float64, reason *string) error {
	return nil
}

func (r *sweepRepo) MarkNoTracking(ctx context.Context) (int64, error) {
	r.calls++
	return r.updated, r.err
}

func TestSettlementCheckHandle(t *testing.T) {
	repo := &sweepRepo{updated: 2}
	job := NewSettlementCheckJob(tracking.NewService(repo, nil), slog.Default())

	require.NoError(t, job.Handle(context.Background(), NewSettlementCheckTask()))
	assert.Equal(t, 1, repo.calls)
}

func TestSettlementCheckPropagatesError(t *testing.T) {
	repo := &sweepRepo{err: errors.New("db down")}
	job := NewSettlementCheckJob(tracking.NewService(repo, nil), slog.Default())

	err := job.Handle(context.Background(), NewSettlementCheckTask())
	require.Error(t, err)
}
