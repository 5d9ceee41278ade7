package quotations

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retour-ops/retour/internal/shared"
)

func newTestRouter(repo Repository) http.Handler {
	svc, _ := newTestService(repo)
	h := NewHandler(slog.Default(), svc)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
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

func TestListRequiresLogin(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodGet, "/list", "", ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeNotLoggedIn, body["error"])
}

func TestGetUnknownQuotationReturns404(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodGet, "/99", "", shared.RoleStaff))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeQuotationNotFound, body["error"])
}

func TestGetInvalidID(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodGet, "/abc", "", shared.RoleStaff))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeInvalidID, body["error"])
}

func TestCreateRequiresAdmin(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/create",
		`{"name": "Standard", "price": 4.5}`, shared.RoleStaff))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeForbidden, body["error"])
}

func TestCreateMissingFields(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/create", `{"name": "Standard"}`, shared.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeMissingFields, body["error"])
}

func TestCreateReturnsQuotationID(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/create",
		`{"name": "Standard", "price": 4.5, "is_default": true}`, shared.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(1), body["quotation_id"])
}

func TestUpdateNameRequired(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPut, "/1", `{"price": 2.0}`, shared.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeNameRequired, body["error"])
}

func TestDeleteUnknownQuotationReturns404(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodDelete, "/5", "", shared.RoleAdmin))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeQuotationNotFound, body["error"])
}

func TestCopyToCustomerUnknownQuotationReturns404(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/copy-to-customer",
		`{"quotation_id": 5, "customer_id": 1}`, shared.RoleAdmin))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeQuotationNotFound, body["error"])
}

func TestMatrixReturnsData(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodGet, "/all/custom", "", shared.RoleStaff))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	_, ok := body["data"].([]interface{})
	assert.True(t, ok)
}
