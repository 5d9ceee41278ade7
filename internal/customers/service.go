package customers

import (
	"context"
	"fmt"

	"github.com/retour-ops/retour/internal/oplog"
)

const listCap = 500

// Service wraps customer business rules.
type Service struct {
	repo     Repository
	recorder *oplog.Recorder
}

// NewService constructs a Service.
func NewService(repo Repository, recorder *oplog.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// List returns customers newest-first, capped.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx, listCap)
}

// Create inserts a new customer and records the action.
func (s *Service) Create(ctx context.Context, c Customer, actorID int64, ip string) (int64, error) {
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("create customer: %w", err)
	}
	s.recorder.Record(ctx, oplog.Entry{
		UserID:     actorID,
		Action:     "customer.create",
		TargetType: strPtr("customer"),
		TargetID:   &id,
		Details:    strPtr(c.CustomerCode),
		IP:         ip,
	})
	return id, nil
}

// Delete hard-deletes a customer and records the action.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64, ip string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	s.recorder.Record(ctx, oplog.Entry{
		UserID:     actorID,
		Action:     "customer.delete",
		TargetType: strPtr("customer"),
		TargetID:   &id,
		IP:         ip,
	})
	return nil
}

func strPtr(s string) *string {
	return &s
}
