package quotations

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/retour-ops/retour/internal/oplog"
)

// Service wraps quotation business rules.
type Service struct {
	repo     Repository
	recorder *oplog.Recorder
	group    singleflight.Group
}

// NewService constructs a Service.
func NewService(repo Repository, recorder *oplog.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// List returns active quotations, default first.
func (s *Service) List(ctx context.Context) ([]Quotation, error) {
	return s.repo.ListActive(ctx)
}

// Get returns one active quotation.
func (s *Service) Get(ctx context.Context, id int64) (*Quotation, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a quotation and records the action.
func (s *Service) Create(ctx context.Context, req CreateQuotationRequest, actorID int64, ip string) (int64, error) {
	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}
	id, err := s.repo.Create(ctx, Quotation{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    currency,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		return 0, fmt.Errorf("create quotation: %w", err)
	}
	s.recorder.Record(ctx, oplog.Entry{
		UserID:     actorID,
		Action:     "quotation.create",
		TargetType: strPtr("quotation"),
		TargetID:   &id,
		Details:    strPtr(req.Name),
		IP:         ip,
	})
	return id, nil
}

// Update overwrites a quotation and records the action.
func (s *Service) Update(ctx context.Context, id int64, req UpdateQuotationRequest, actorID int64, ip string) error {
	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}
	err := s.repo.Update(ctx, id, Quotation{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    currency,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		return err
	}
	s.recorder.Record(ctx, oplog.Entry{
		UserID:     actorID,
		Action:     "quotation.update",
		TargetType: strPtr("quotation"),
		TargetID:   &id,
		IP:         ip,
	})
	return nil
}

// Delete deactivates a quotation and records the action. Rows stay behind
// for the operation log and existing overrides.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64, ip string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, oplog.Entry{
		UserID:     actorID,
		Action:     "quotation.delete",
		TargetType: strPtr("quotation"),
		TargetID:   &id,
		IP:         ip,
	})
	return nil
}

// CopyToCustomer upserts a per-customer override. The quotation must exist
// and be active.
func (s *Service) CopyToCustomer(ctx context.Context, req CopyToCustomerRequest, actorID int64, ip string) error {
	if _, err := s.repo.Get(ctx, req.QuotationID); err != nil {
		return err
	}
	if err := s.repo.UpsertOverride(ctx, req.CustomerID, req.QuotationID, req.CustomPrice); err != nil {
		return fmt.Errorf("copy quotation to customer: %w", err)
	}
	s.recorder.Record(ctx, oplog.Entry{
		UserID:     actorID,
		Action:     "quotation.copy_to_customer",
		TargetType: strPtr("quotation"),
		TargetID:   &req.QuotationID,
		Details:    strPtr(fmt.Sprintf("customer=%d", req.CustomerID)),
		IP:         ip,
	})
	return nil
}

// ListForCustomer returns active quotations with the customer's overrides applied.
func (s *Service) ListForCustomer(ctx context.Context, customerID int64) ([]CustomerPrice, error) {
	return s.repo.ListForCustomer(ctx, customerID)
}

// Matrix returns the full customer × quotation grid. Concurrent callers
// share one database query.
func (s *Service) Matrix(ctx context.Context) ([]MatrixRow, error) {
	v, err, _ := s.group.Do("matrix", func() (interface{}, error) {
		return s.repo.Matrix(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]MatrixRow), nil
}

func strPtr(s string) *string {
	return &s
}
