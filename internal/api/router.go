package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Matchmaker/internal/assessment"
	"github.com/MikeSquared-Agency/Matchmaker/internal/metrics"
)

type RouterOptions struct {
	AdminToken        string
	RequestsPerMinute int
}

func NewRouter(svc *assessment.Service, m *metrics.Metrics, opts RouterOptions, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(MetricsMiddleware(m))
	if opts.RequestsPerMinute > 0 {
		r.Use(RateLimitMiddleware(opts.RequestsPerMinute))
	}

	sessions := NewSessionsHandler(svc)
	catalog := NewCatalogHandler(svc)
	admin := NewAdminHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/traits", catalog.Traits)
		r.Get("/candidates", catalog.Candidates)
		r.Get("/scenarios", catalog.Scenarios)

		r.Post("/sessions", sessions.Create)
		r.Get("/sessions/{id}", sessions.Get)
		r.Delete("/sessions/{id}", sessions.Delete)
		r.Post("/sessions/{id}/begin", sessions.Begin)
		r.Get("/sessions/{id}/scenario", sessions.Current)
		r.Post("/sessions/{id}/answers", sessions.Answer)
		r.Post("/sessions/{id}/reset", sessions.Reset)
		r.Get("/sessions/{id}/matches", sessions.Matches)
		r.Get("/sessions/{id}/profile", sessions.Profile)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(opts.AdminToken))
			r.Get("/admin/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
