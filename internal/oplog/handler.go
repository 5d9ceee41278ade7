package oplog

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retour-ops/retour/internal/shared"
)

// Handler exposes the operation log endpoints.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers log routes. All routes require a session.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(shared.RequireLogin)
	r.Get("/", h.list)
	r.Post("/", h.append)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := shared.PageParams(r, 50)

	entries, total, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list operation logs", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	shared.OK(w, shared.Envelope{"data": entries, "total": total, "page": page, "limit": limit})
}

type appendRequest struct {
	Action     string  `json:"action"`
	TargetType *string `json:"target_type"`
	TargetID   *int64  `json:"target_id"`
	Details    *string `json:"details"`
}

func (h *Handler) append(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}
	if req.Action == "" {
		shared.Fail(w, http.StatusBadRequest, shared.CodeActionRequired)
		return
	}

	ident := shared.IdentityFromContext(r.Context())
	entry := Entry{
		UserID:     ident.UserID,
		Action:     req.Action,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Details:    req.Details,
		IP:         r.RemoteAddr,
	}
	if err := h.repo.Insert(r.Context(), entry); err != nil {
		h.logger.Error("append operation log", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeDBError)
		return
	}
	shared.OK(w, nil)
}
