package shipments

import (
	"context"
	"fmt"
	"log/slog"
)

// Service wraps shipment business rules.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns shipments matching the filter plus the unpaginated total.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Shipment, int, error) {
	return s.repo.List(ctx, filter)
}

// Get returns one shipment.
func (s *Service) Get(ctx context.Context, id int64) (*Shipment, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a shipment built from the request, applying defaults.
func (s *Service) Create(ctx context.Context, req CreateShipmentRequest) (int64, error) {
	id, err := s.repo.Create(ctx, fromCreateRequest(req))
	if err != nil {
		return 0, fmt.Errorf("create shipment: %w", err)
	}
	return id, nil
}

// BulkCreate inserts every structurally valid row and returns the inserted
// count. Invalid rows are skipped without being reported individually.
func (s *Service) BulkCreate(ctx context.Context, rows []BulkRow) (int, error) {
	inserted := 0
	for i, row := range rows {
		if row.CustomerID <= 0 || row.Country == "" || row.City == "" || row.Postcode == "" || row.Street == "" {
			s.logger.Debug("skipping invalid bulk row", slog.Int("index", i))
			continue
		}
		_, err := s.repo.Create(ctx, fromBulkRow(row))
		if err != nil {
			return inserted, fmt.Errorf("bulk create shipment: %w", err)
		}
		inserted++
	}
	return inserted, nil
}

// UpdateStatus overwrites the free-form shipment status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update shipment status: %w", err)
	}
	return nil
}

func fromCreateRequest(req CreateShipmentRequest) Shipment {
	sh := Shipment{
		CustomerID:     req.CustomerID,
		OrderNo:        req.OrderNo,
		Country:        req.Country,
		City:           req.City,
		Postcode:       req.Postcode,
		Street:         req.Street,
		HouseNo:        req.HouseNo,
		Product:        req.Product,
		Quantity:       1,
		Classification: "UNKNOWN",
		NeedCustoms:    req.NeedCustoms,
		Status:         DefaultStatus,
	}
	if req.Quantity != nil && *req.Quantity > 0 {
		sh.Quantity = *req.Quantity
	}
	if req.DeclaredValue != nil {
		sh.DeclaredValue = *req.DeclaredValue
	}
	if req.Classification != nil && *req.Classification != "" {
		sh.Classification = *req.Classification
	}
	return sh
}

func fromBulkRow(row BulkRow) Shipment {
	sh := Shipment{
		CustomerID:     row.CustomerID,
		OrderNo:        row.OrderNo,
		Country:        row.Country,
		City:           row.City,
		Postcode:       row.Postcode,
		Street:         row.Street,
		HouseNo:        row.HouseNo,
		Product:        row.Product,
		Quantity:       1,
		Classification: "UNKNOWN",
		NeedCustoms:    row.NeedCustoms,
		Status:         DefaultStatus,
	}
	if row.Qty != nil && *row.Qty > 0 {
		sh.Quantity = *row.Qty
	}
	if row.Value != nil {
		sh.DeclaredValue = *row.Value
	}
	if row.Classification != nil && *row.Classification != "" {
		sh.Classification = *row.Classification
	}
	return sh
}
