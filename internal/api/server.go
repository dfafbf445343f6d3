// Package api exposes the footprint engine over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rshade/platform-carbon-estimator/internal/config"
)

// Registry is both where collectors are registered and where /metrics reads them.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// Server routes HTTP requests to the analysis service.
type Server struct {
	cfg      *config.Config
	service  *Service
	metrics  *Metrics
	registry Registry
	logger   zerolog.Logger
	testMode bool
}

// NewServer creates a Server and registers its metrics with reg.
func NewServer(cfg *config.Config, service *Service, reg Registry, logger zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		service:  service,
		metrics:  NewMetrics(reg),
		registry: reg,
		logger:   logger,
		testMode: cfg.TestMode,
	}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestContext(s.logger))
	r.Use(observe(s.metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(s.cfg.CORS))

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(s.cfg.RateLimit))
		r.Use(limitBody(s.cfg.Server.MaxBodyBytes))

		r.Post("/analyze", s.handleAnalyze)
		r.Post("/equivalences", s.handleEquivalences)
		r.Post("/projections", s.handleProjections)
		r.Get("/coefficients", s.handleCoefficients)
	})

	return r
}
