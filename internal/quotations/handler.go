package quotations

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

// Handler exposes quotation endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers quotation routes. Reads require a session;
// price list mutations require the admin role.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireLogin)
		r.Get("/list", h.list)
		r.Get("/customer/{customer_id}", h.listForCustomer)
		r.Get("/all/custom", h.matrix)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireAdmin)
		r.Post("/create", h.create)
		r.Post("/copy-to-customer", h.copyToCustomer)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list quotations", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	if list == nil {
		list = []Quotation{}
	}
	shared.OK(w, shared.Envelope{"data": list})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
		return
	}

	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.Fail(w, http.StatusNotFound, shared.CodeQuotationNotFound)
			return
		}
		h.logger.Error("get quotation", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, shared.Envelope{"data": q})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeMissingFields)
		return
	}

	ident := shared.IdentityFromContext(r.Context())
	id, err := h.service.Create(r.Context(), req, ident.UserID, r.RemoteAddr)
	if err != nil {
		h.logger.Error("create quotation", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, shared.Envelope{"quotation_id": id})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
		return
	}
	var req UpdateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}
	if req.Name == "" {
		shared.Fail(w, http.StatusBadRequest, shared.CodeNameRequired)
		return
	}

	ident := shared.IdentityFromContext(r.Context())
	if err := h.service.Update(r.Context(), id, req, ident.UserID, r.RemoteAddr); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.Fail(w, http.StatusNotFound, shared.CodeQuotationNotFound)
			return
		}
		h.logger.Error("update quotation", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, nil)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
		return
	}

	ident := shared.IdentityFromContext(r.Context())
	if err := h.service.Delete(r.Context(), id, ident.UserID, r.RemoteAddr); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.Fail(w, http.StatusNotFound, shared.CodeQuotationNotFound)
			return
		}
		h.logger.Error("delete quotation", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, nil)
}

func (h *Handler) copyToCustomer(w http.ResponseWriter, r *http.Request) {
	var req CopyToCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeMissingFields)
		return
	}

	ident := shared.IdentityFromContext(r.Context())
	if err := h.service.CopyToCustomer(r.Context(), req, ident.UserID, r.RemoteAddr); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.Fail(w, http.StatusNotFound, shared.CodeQuotationNotFound)
			return
		}
		h.logger.Error("copy quotation to customer", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, nil)
}

func (h *Handler) listForCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customer_id"), 10, 64)
	if err != nil || customerID <= 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
		return
	}

	list, err := h.service.ListForCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.Error("list customer quotations", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	if list == nil {
		list = []CustomerPrice{}
	}
	shared.OK(w, shared.Envelope{"data": list})
}

func (h *Handler) matrix(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Matrix(r.Context())
	if err != nil {
		h.logger.Error("quotation matrix", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	if rows == nil {
		rows = []MatrixRow{}
	}
	shared.OK(w, shared.Envelope{"data": rows})
}
