package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/pharmacy-inventory/internal/observability"
	"github.com/odyssey-erp/pharmacy-inventory/internal/platform/httpx"
	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
)

// ServiceName is reported by /healthz.
const ServiceName = "pharmacy-inventory-backend"

const healthTimestampLayout = "2006-01-02T15:04:05.000Z"

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
	GraphQL http.Handler
	// Ready checks backing services for /readyz; nil means always ready.
	Ready func(ctx context.Context) error
	Clock shared.Clock
}

// NewRouter constructs the chi.Router with the service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
		Clock:   params.Clock,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{
			"status":    "OK",
			"timestamp": shared.AsOfFromContext(r.Context()).UTC().Format(healthTimestampLayout),
			"service":   ServiceName,
		})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if params.Ready != nil {
			if err := params.Ready(r.Context()); err != nil {
				params.Logger.Warn("readiness check failed", slog.Any("error", err))
				httpx.RespondError(w, err)
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})

	if params.GraphQL != nil {
		r.Method(http.MethodPost, "/graphql", params.GraphQL)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method+" "+r.URL.Path)
	})

	return r
}
