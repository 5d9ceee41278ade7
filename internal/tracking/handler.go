package tracking

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/retour-ops/retour/internal/shared"
)

// Handler exposes tracking and settlement endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers tracking routes. Refund generation and the aging
// sweep require the admin role.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireLogin)
		r.Get("/list", h.list)
		r.Get("/detail/{shipment_id}", h.detail)
		r.Post("/add", h.addEvent)
		r.Get("/settlement-pending", h.settlementPending)
	})
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireAdmin)
		r.Post("/generate-refund", h.generateRefund)
		r.Post("/check-no-tracking", h.checkNoTracking)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := shared.PageParams(r, 50)

	filter := ListFilter{Limit: limit, Offset: offset}
	if v := r.URL.Query().Get("settlement_status"); v != "" {
		filter.SettlementStatus = &v
	}
	if v := r.URL.Query().Get("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
			return
		}
		filter.CustomerID = &id
	}

	rows, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list tracking", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	if rows == nil {
		rows = []ListRow{}
	}
	shared.OK(w, shared.Envelope{
		"data":       rows,
		"pagination": shared.NewPagination(page, limit, int(total)),
	})
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	shipmentID, err := strconv.ParseInt(chi.URLParam(r, "shipment_id"), 10, 64)
	if err != nil || shipmentID <= 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
		return
	}

	detail, err := h.service.Detail(r.Context(), shipmentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.Fail(w, http.StatusNotFound, shared.CodeShipmentNotFound)
			return
		}
		h.logger.Error("tracking detail", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, shared.Envelope{
		"shipment":   detail.Shipment,
		"events":     detail.Events,
		"settlement": detail.Settlement,
	})
}

type addEventRequest struct {
	ShipmentID    int64   `json:"shipment_id" validate:"required,gt=0"`
	DHLTrackingNo *string `json:"dhl_tracking_no"`
	Status        string  `json:"status" validate:"required"`
	Location      *string `json:"location"`
	Description   *string `json:"description"`
}

func (h *Handler) addEvent(w http.ResponseWriter, r *http.Request) {
	var req addEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeMissingFields)
		return
	}

	event := Event{
		ShipmentID:    req.ShipmentID,
		DHLTrackingNo: req.DHLTrackingNo,
		Status:        req.Status,
		Location:      req.Location,
		Description:   req.Description,
	}

	id, err := h.service.AddEvent(r.Context(), event)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.Fail(w, http.StatusNotFound, shared.CodeShipmentNotFound)
			return
		}
		h.logger.Error("add tracking event", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, shared.Envelope{"tracking_id": id})
}

func (h *Handler) settlementPending(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.SettlementPending(r.Context())
	if err != nil {
		h.logger.Error("settlement pending", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	if rows == nil {
		rows = []PendingRow{}
	}
	shared.OK(w, shared.Envelope{"data": rows})
}

type generateRefundRequest struct {
	ShipmentID   int64    `json:"shipment_id" validate:"required,gt=0"`
	RefundAmount *float64 `json:"refund_amount"`
	Reason       *string  `json:"reason"`
}

func (h *Handler) generateRefund(w http.ResponseWriter, r *http.Request) {
	var req generateRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeMissingFields)
		return
	}

	ident := shared.IdentityFromContext(r.Context())
	if err := h.service.GenerateRefund(r.Context(), req.ShipmentID, req.RefundAmount, req.Reason, ident.UserID, r.RemoteAddr); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.Fail(w, http.StatusNotFound, shared.CodeShipmentNotFound)
			return
		}
		h.logger.Error("generate refund", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, nil)
}

func (h *Handler) checkNoTracking(w http.ResponseWriter, r *http.Request) {
	updated, err := h.service.CheckNoTracking(r.Context())
	if err != nil {
		h.logger.Error("no-tracking sweep", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, shared.Envelope{"updated": updated})
}
