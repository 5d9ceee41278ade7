package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/retour-ops/retour/internal/oplog"
	"github.com/retour-ops/retour/internal/shared"
)

// Detail bundles a shipment's header, tracking history and settlement state.
type Detail struct {
	Shipment   *ShipmentInfo     `json:"shipment"`
	Events     []Event           `json:"events"`
	Settlement *SettlementRecord `json:"settlement"`
}

// Service wraps tracking and settlement business rules.
type Service struct {
	repo     Repository
	recorder *oplog.Recorder
}

// NewService constructs a Service.
func NewService(repo Repository, recorder *oplog.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// List returns the tracking overview page.
func (s *Service) List(ctx context.Context, f ListFilter) ([]ListRow, int64, error) {
	return s.repo.List(ctx, f)
}

// Detail fetches the shipment, its events and its settlement state
// concurrently. A missing shipment is the only not-found condition; a
// shipment without a settlement row reports a nil settlement.
func (s *Service) Detail(ctx context.Context, shipmentID int64) (*Detail, error) {
	var d Detail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := s.repo.GetShipment(gctx, shipmentID)
		if err != nil {
			return err
		}
		d.Shipment = info
		return nil
	})
	g.Go(func() error {
		events, err := s.repo.Events(gctx, shipmentID)
		if err != nil {
			return err
		}
		if events == nil {
			events = []Event{}
		}
		d.Events = events
		return nil
	})
	g.Go(func() error {
		rec, err := s.repo.Settlement(gctx, shipmentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		d.Settlement = rec
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// AddEvent validates the shipment and appends a tracking event. The event
// time is always server-assigned; anything the caller put there is
// discarded.
func (s *Service) AddEvent(ctx context.Context, e Event) (int64, error) {
	exists, err := s.repo.ShipmentExists(ctx, e.ShipmentID)
	if err != nil {
		return 0, fmt.Errorf("check shipment: %w", err)
	}
	if !exists {
		return 0, shared.ErrNotFound
	}
	e.EventTime = time.Now()
	return s.repo.AddEvent(ctx, e)
}

// SettlementPending lists shipments flagged no_tracking past the threshold,
// oldest silence first.
func (s *Service) SettlementPending(ctx context.Context) ([]PendingRow, error) {
	return s.repo.SettlementPending(ctx)
}

// GenerateRefund marks a shipment refunded, storing amount and reason, and
// records the action.
func (s *Service) GenerateRefund(ctx context.Context, shipmentID int64, amount *float64, reason *string, actorID int64, ip string) error {
	if err := s.repo.GenerateRefund(ctx, shipmentID, amount, reason); err != nil {
		return err
	}
	s.recorder.Record(ctx, oplog.Entry{
		UserID:     actorID,
		Action:     "settlement.generate_refund",
		TargetType: strPtr("shipment"),
		TargetID:   &shipmentID,
		Details:    reason,
		IP:         ip,
	})
	return nil
}

// CheckNoTracking runs the aging sweep and returns how many records moved
// to no_tracking.
func (s *Service) CheckNoTracking(ctx context.Context) (int64, error) {
	return s.repo.MarkNoTracking(ctx)
}

func strPtr(s string) *string {
	return &s
}
