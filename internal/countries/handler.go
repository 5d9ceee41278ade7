package countries

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retour-ops/retour/internal/shared"
)

// Handler exposes country rule endpoints.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers country routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(shared.RequireLogin)
	r.Get("/", h.list)
	r.Get("/cn23", h.listCN23)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list country rules", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	if rules == nil {
		rules = []Rule{}
	}
	shared.OK(w, shared.Envelope{"data": rules})
}

func (h *Handler) listCN23(w http.ResponseWriter, r *http.Request) {
	rules, err := h.repo.ListCN23Required(r.Context())
	if err != nil {
		h.logger.Error("list cn23 countries", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	if rules == nil {
		rules = []Rule{}
	}
	shared.OK(w, shared.Envelope{"data": rules})
}
