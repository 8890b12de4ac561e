// Package gateway assembles the HTTP API of the report service.
package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/syntrixbase/esreport/internal/gateway/config"
	"github.com/syntrixbase/esreport/internal/gateway/rest"
)

// Server is a route registrar for the API layer.
// It registers REST and metrics routes to a given ServeMux.
type Server struct {
	rest    *rest.Handler
	metrics http.Handler
}

// ServerOption is a function that configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	metricsHandler http.Handler
}

// WithMetricsHandler replaces the Prometheus handler served on /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(c *serverConfig) {
		c.metricsHandler = h
	}
}

// NewServer creates a new API Server (route registrar).
func NewServer(reports rest.ReportService, cfg config.Config, opts ...ServerOption) *Server {
	sc := &serverConfig{}
	for _, opt := range opts {
		opt(sc)
	}

	s := &Server{rest: rest.NewHandler(reports, cfg)}
	if cfg.EnableMetrics {
		s.metrics = sc.metricsHandler
		if s.metrics == nil {
			s.metrics = promhttp.Handler()
		}
	}
	return s
}

// RegisterRoutes registers all API routes to the given ServeMux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	s.rest.RegisterRoutes(mux)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
}
