package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/voya/internal/config"
	"github.com/pkordes/voya/internal/handler"
	"github.com/pkordes/voya/internal/metrics"
	"github.com/pkordes/voya/internal/middleware"
	"github.com/pkordes/voya/spec"
)

// newRouter builds the public API router.
// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
// RealIP must run before the rate limiter, which keys on RemoteAddr, and
// only believes forwarding headers from cfg.TrustedProxies.
// Recoverer catches panics and returns HTTP 500 instead of crashing.
// /metrics is served by newMetricsServer instead.
func newRouter(srv *handler.Server, cfg config.Config, m *metrics.Metrics, logger *slog.Logger) (http.Handler, error) {
	realIP, err := middleware.NewRealIP(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(realIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewMetrics(m))

	srv.Routes(r)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})
	return r, nil
}

// newMetricsServer serves the Prometheus registry on its own listener so
// scrape data never shares a port with the public API.
func newMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := chi.NewRouter()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
