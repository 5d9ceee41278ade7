package customers

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

// Handler exposes customer endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers customer routes. Listing requires a session;
// mutations require the admin role.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireLogin)
		r.Get("/", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(shared.RequireAdmin)
		r.Post("/", h.create)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	if customers == nil {
		customers = []Customer{}
	}
	shared.OK(w, shared.Envelope{"data": customers})
}

type createRequest struct {
	CustomerCode string  `json:"customer_code" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Remark       *string `json:"remark"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeMissingFields)
		return
	}

	ident := shared.IdentityFromContext(r.Context())
	id, err := h.service.Create(r.Context(), Customer{
		CustomerCode: req.CustomerCode,
		Name:         req.Name,
		Remark:       req.Remark,
	}, ident.UserID, r.RemoteAddr)
	if err != nil {
		if errors.Is(err, ErrDuplicateCode) {
			shared.Fail(w, http.StatusBadRequest, shared.CodeDuplicateCustomer)
			return
		}
		h.logger.Error("create customer", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, shared.Envelope{"customer_id": id})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidID)
		return
	}

	ident := shared.IdentityFromContext(r.Context())
	if err := h.service.Delete(r.Context(), id, ident.UserID, r.RemoteAddr); err != nil {
		h.logger.Error("delete customer", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, nil)
}
