package tracking

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

func TestListReturnsPaginationEnvelope(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodGet, "/list?page=2&limit=10", "", shared.RoleStaff))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	pagination, ok := body["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(10), pagination["limit"])
}

func TestAddEventUnknownShipmentReturns404(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/add",
		`{"shipment_id": 42, "status": "delivered"}`, shared.RoleStaff))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeShipmentNotFound, body["error"])
}

func TestAddEventMissingFields(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/add", `{"shipment_id": 1}`, shared.RoleStaff))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeMissingFields, body["error"])
}

func TestAddEventReturnsTrackingID(t *testing.T) {
	repo := newMockRepository()
	repo.addShipment(1)
	repo.settlements[1] = &SettlementRecord{ShipmentID: 1, SettlementStatus: StatusNormal}
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/add",
		`{"shipment_id": 1, "dhl_tracking_no": "JD014600003RU", "status": "in_transit", "location": "Leipzig"}`, shared.RoleStaff))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["tracking_id"])
	require.Len(t, repo.events, 1)
	require.NotNil(t, repo.events[0].DHLTrackingNo)
	assert.Equal(t, "JD014600003RU", *repo.events[0].DHLTrackingNo)
}

func TestGenerateRefundRequiresAdmin(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/generate-refund",
		`{"shipment_id": 1}`, shared.RoleStaff))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeForbidden, body["error"])
}

func TestGenerateRefundUnknownShipmentReturns404(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/generate-refund",
		`{"shipment_id": 77, "refund_amount": 4.5}`, shared.RoleAdmin))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeShipmentNotFound, body["error"])
}

func TestGenerateRefundStoresReason(t *testing.T) {
	repo := newMockRepository()
	repo.settlements[9] = &SettlementRecord{ShipmentID: 9, SettlementStatus: StatusNoTracking}
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/generate-refund",
		`{"shipment_id": 9, "refund_amount": 4.5, "reason": "parcel lost"}`, shared.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusRefunded, repo.settlements[9].SettlementStatus)
	require.NotNil(t, repo.settlements[9].RefundReason)
	assert.Equal(t, "parcel lost", *repo.settlements[9].RefundReason)
}

func TestCheckNoTrackingReturnsUpdated(t *testing.T) {
	repo := newMockRepository()
	repo.sweepUpdated = 3
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/check-no-tracking", "", shared.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["updated"])
}

func TestDetailInvalidID(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodGet, "/detail/abc", "", shared.RoleStaff))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeInvalidID, body["error"])
}

func TestDetailIncludesShipment(t *testing.T) {
	repo := newMockRepository()
	repo.addShipment(5)
	repo.settlements[5] = &SettlementRecord{ShipmentID: 5, SettlementStatus: StatusNormal}
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodGet, "/detail/5", "", shared.RoleStaff))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	shipment, ok := body["shipment"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), shipment["id"])
	assert.Equal(t, "Acme GmbH", shipment["customer_name"])
	_, hasEvents := body["events"]
	assert.True(t, hasEvents)
	_, hasSettlement := body["settlement"]
	assert.True(t, hasSettlement)
}

func TestDetailUnknownShipmentReturns404(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodGet, "/detail/99", "", shared.RoleStaff))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, shared.CodeShipmentNotFound, body["error"])
}
