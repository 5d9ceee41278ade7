package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retour-ops/retour/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager) *Handler {
	return &Handler{logger: logger, service: service, sessionManager: sessions}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Get("/me", h.handleMe)
	r.Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidData)
		return
	}
	if req.Username == "" || req.Password == "" {
		shared.Fail(w, http.StatusBadRequest, shared.CodeMissingFields)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			shared.Fail(w, http.StatusBadRequest, shared.CodeInvalidCreds)
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		shared.Fail(w, http.StatusInternalServerError, shared.CodeServerError)
		return
	}

	ident := shared.Identity{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		shared.Fail(w, http.StatusInternalServerError, shared.CodeServerError)
		return
	}
	sess.SetIdentity(ident)

	shared.OK(w, shared.Envelope{"user": ident})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	if ident == nil {
		// Anonymous probes are not an error for the front end.
		shared.JSON(w, http.StatusOK, shared.Envelope{"ok": false, "user": nil})
		return
	}
	shared.OK(w, shared.Envelope{"user": ident})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Destroy(sess)
	}
	shared.OK(w, nil)
}
