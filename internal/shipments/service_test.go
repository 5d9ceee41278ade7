package shipments

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	shipments map[int64]*Shipment
	nextID    int64

	createError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{shipments: make(map[int64]*Shipment), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context, filter ListFilter) ([]Shipment, int, error) {
	var out []Shipment
	for _, s := range m.shipments {
		if filter.CustomerID != nil && s.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Shipment, error) {
	s, ok := m.shipments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *mockRepository) Create(ctx context.Context, s Shipment) (int64, error) {
	if m.createError != nil {
		return 0, m.createError
	}
	s.ID = m.nextID
	m.nextID++
	m.shipments[s.ID] = &s
	return s.ID, nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	s, ok := m.shipments[id]
	if !ok {
		return ErrNotFound
	}
	s.Status = status
	return nil
}

func TestCreateAppliesDefaults(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, slog.Default())

	id, err := svc.Create(context.Background(), CreateShipmentRequest{
		CustomerID: 1, Country: "DE", City: "Berlin", Postcode: "10115", Street: "Invalidenstr.",
	})
	require.NoError(t, err)

	created := repo.shipments[id]
	assert.Equal(t, 1, created.Quantity)
	assert.Equal(t, "UNKNOWN", created.Classification)
	assert.Equal(t, DefaultStatus, created.Status)
	assert.Equal(t, float64(0), created.DeclaredValue)
}

func TestCreateKeepsExplicitValues(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, slog.Default())

	qty := 3
	value := 25.0
	classification := "CLOTHING"
	id, err := svc.Create(context.Background(), CreateShipmentRequest{
		CustomerID: 1, Country: "DE", City: "Berlin", Postcode: "10115", Street: "Invalidenstr.",
		Quantity: &qty, DeclaredValue: &value, Classification: &classification,
	})
	require.NoError(t, err)

	created := repo.shipments[id]
	assert.Equal(t, 3, created.Quantity)
	assert.Equal(t, 25.0, created.DeclaredValue)
	assert.Equal(t, "CLOTHING", created.Classification)
}

func TestBulkCreateSkipsInvalidRows(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, slog.Default())

	rows := []BulkRow{
		{CustomerID: 1, Country: "DE", City: "Berlin", Postcode: "10115", Street: "A"},
		{CustomerID: 0, Country: "DE", City: "Berlin", Postcode: "10115", Street: "B"},
		{CustomerID: 1, Country: "", City: "Berlin", Postcode: "10115", Street: "C"},
		{CustomerID: 2, Country: "FR", City: "Paris", Postcode: "75001", Street: "D"},
	}

	inserted, err := svc.BulkCreate(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Len(t, repo.shipments, 2)
}

func TestBulkCreateEmptyInput(t *testing.T) {
	svc := NewService(newMockRepository(), slog.Default())

	inserted, err := svc.BulkCreate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}

func TestUpdateStatus(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, slog.Default())

	id, err := svc.Create(context.Background(), CreateShipmentRequest{
		CustomerID: 1, Country: "DE", City: "Berlin", Postcode: "10115", Street: "A",
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), id, "shipped"))
	assert.Equal(t, "shipped", repo.shipments[id].Status)
}

func TestListFiltersByStatus(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, slog.Default())

	_, err := svc.Create(context.Background(), CreateShipmentRequest{
		CustomerID: 1, Country: "DE", City: "Berlin", Postcode: "10115", Street: "A",
	})
	require.NoError(t, err)
	id2, err := svc.Create(context.Background(), CreateShipmentRequest{
		CustomerID: 1, Country: "FR", City: "Paris", Postcode: "75001", Street: "B",
	})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(context.Background(), id2, "shipped"))

	status := "shipped"
	list, total, err := svc.List(context.Background(), ListFilter{Status: &status, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, id2, list[0].ID)
}
