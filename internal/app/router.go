package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/muzaini-app/muzaini-reports/internal/auth"
	"github.com/muzaini-app/muzaini-reports/internal/observability"
	"github.com/muzaini-app/muzaini-reports/internal/platform/httpx"
	reporthttp "github.com/muzaini-app/muzaini-reports/internal/reporting/http"
	"github.com/muzaini-app/muzaini-reports/jobs"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	Auth          *auth.Service
	ReportHandler *reporthttp.Handler
	JobHandler    *jobs.Handler
	Metrics       *observability.Metrics
	// Checks run on /healthz. A failing check turns the response into 503.
	Checks map[string]HealthCheck
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", healthHandler(logger, params.Checks))
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(params.Auth.Middleware(logger))
		if params.ReportHandler != nil {
			params.ReportHandler.MountRoutes(r)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(logger *slog.Logger, checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		out := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			out.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.Warn("health check failed", slog.String("check", name), slog.Any("error", err))
				out.Checks[name] = "down"
				out.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			out.Checks[name] = "ok"
		}
		httpx.JSON(w, status, out)
	}
}
