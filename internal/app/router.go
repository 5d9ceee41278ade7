package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/retour-ops/retour/internal/auth"
	"github.com/retour-ops/retour/internal/cn23"
	"github.com/retour-ops/retour/internal/countries"
	"github.com/retour-ops/retour/internal/customers"
	"github.com/retour-ops/retour/internal/observability"
	"github.com/retour-ops/retour/internal/oplog"
	"github.com/retour-ops/retour/internal/quotations"
	"github.com/retour-ops/retour/internal/shared"
	"github.com/retour-ops/retour/internal/shipments"
	"github.com/retour-ops/retour/internal/tracking"
	"github.com/retour-ops/retour/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	SessionManager    *shared.SessionManager
	AuthHandler       *auth.Handler
	CustomersHandler  *customers.Handler
	ShipmentsHandler  *shipments.Handler
	CountriesHandler  *countries.Handler
	CN23Handler       *cn23.Handler
	QuotationsHandler *quotations.Handler
	TrackingHandler   *tracking.Handler
	LogsHandler       *oplog.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/customers", params.CustomersHandler.MountRoutes)
		r.Route("/shipments", params.ShipmentsHandler.MountRoutes)
		r.Route("/countries", params.CountriesHandler.MountRoutes)
		r.Route("/cn23", params.CN23Handler.MountRoutes)
		r.Route("/quotations", params.QuotationsHandler.MountRoutes)
		r.Route("/tracking", params.TrackingHandler.MountRoutes)
		r.Route("/logs", params.LogsHandler.MountRoutes)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.Fail(w, http.StatusNotFound, shared.CodeNotFound)
	})

	return r
}
