package shipments

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

// Handler exposes shipment endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers shipment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(shared.RequireLogin)
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/bulk", h.bulkCreate)
	r.Patch("/{id}/status", h.updateStatus)
	r.Get("/{id}", h.get)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := shared.PageParams(r, 50)

	filter := ListFilter{Limit: limit, Offset: offset}
	if v := r.URL.Query().Get("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
			return
		}
		filter.CustomerID = &id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	shipments, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list shipments", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	if shipments == nil {
		shipments = []Shipment{}
	}
	shared.OK(w, shared.Envelope{"data": shipments, "total": total, "page": page, "limit": limit})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeMissingFields)
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create shipment", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, shared.Envelope{"shipment_id": id})
}

type bulkRequest struct {
	Rows []BulkRow `json:"rows"`
}

func (h *Handler) bulkCreate(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Rows) == 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}

	inserted, err := h.service.BulkCreate(r.Context(), req.Rows)
	if err != nil {
		h.logger.Error("bulk create shipments", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, shared.Envelope{"insertedCount": inserted})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.logger.Error("update shipment status", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, nil)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
		return
	}

	shipment, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			shared.Fail(w, http.StatusNotFound, shared.CodeNotFound)
			return
		}
		h.logger.Error("get shipment", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, shared.Envelope{"data": shipment})
}
