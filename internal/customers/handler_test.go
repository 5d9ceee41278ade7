package customers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retour-ops/retour/internal/oplog"
	"github.com/retour-ops/retour/internal/shared"
)

type mockRepository struct {
	customers map[int64]*Customer
	byCode    map[string]int64
	nextID    int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		customers: make(map[int64]*Customer),
		byCode:    make(map[string]int64),
		nextID:    1,
	}
}

func (m *mockRepository) List(ctx context.Context, limit int) ([]Customer, error) {
	var out []Customer
	for _, c := range m.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockRepository) Create(ctx context.Context, c Customer) (int64, error) {
	if _, exists := m.byCode[c.CustomerCode]; exists {
		return 0, ErrDuplicateCode
	}
	c.ID = m.nextID
	m.nextID++
	m.customers[c.ID] = &c
	m.byCode[c.CustomerCode] = c.ID
	return c.ID, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	c, ok := m.customers[id]
	if !ok {
		return nil
	}
	delete(m.byCode, c.CustomerCode)
	delete(m.customers, id)
	return nil
}

type captureOplogRepo struct {
	entries []oplog.Entry
}

func (c *captureOplogRepo) Insert(ctx context.Context, e oplog.Entry) error {
	c.entries = append(c.entries, e)
	return nil
}

func (c *captureOplogRepo) List(ctx context.Context, limit, offset int) ([]oplog.Entry, int, error) {
	return c.entries, len(c.entries), nil
}

func newTestRouter(repo Repository) (http.Handler, *captureOplogRepo) {
	capture := &captureOplogRepo{}
	recorder := oplog.NewRecorder(capture, slog.Default())
	h := NewHandler(slog.Default(), NewService(repo, recorder))
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r, capture
}

func requestAs(method, target, body, role string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if role != "" {
		sess := &shared.Session{}
		sess.SetIdentity(shared.Identity{UserID: 1, Username: "tester", Role: role})
		req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	}
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateCustomer(t *testing.T) {
	router, capture := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/",
		`{"customer_code": "ACME", "name": "Acme GmbH"}`, shared.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(1), body["customer_id"])
	require.Len(t, capture.entries, 1)
	assert.Equal(t, "customer.create", capture.entries[0].Action)
}

func TestCreateCustomerDuplicateCode(t *testing.T) {
	repo := newMockRepository()
	router, _ := newTestRouter(repo)

	first := requestAs(http.MethodPost, "/", `{"customer_code": "ACME", "name": "Acme GmbH"}`, shared.RoleAdmin)
	router.ServeHTTP(httptest.NewRecorder(), first)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/",
		`{"customer_code": "ACME", "name": "Other"}`, shared.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeDuplicateCustomer, body["error"])
}

func TestCreateCustomerMissingFields(t *testing.T) {
	router, _ := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/", `{"name": "Acme GmbH"}`, shared.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeMissingFields, body["error"])
}

func TestCreateCustomerRequiresAdmin(t *testing.T) {
	router, _ := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/",
		`{"customer_code": "ACME", "name": "Acme GmbH"}`, shared.RoleStaff))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListCustomersAsStaff(t *testing.T) {
	repo := newMockRepository()
	router, _ := newTestRouter(repo)

	create := requestAs(http.MethodPost, "/", `{"customer_code": "ACME", "name": "Acme GmbH"}`, shared.RoleAdmin)
	router.ServeHTTP(httptest.NewRecorder(), create)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodGet, "/", "", shared.RoleStaff))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestDeleteCustomerInvalidID(t *testing.T) {
	router, _ := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodDelete, "/abc", "", shared.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeInvalidID, body["error"])
}
