// Package mux assembles the process-wide HTTP handler: probes, CORS and the
// standard middleware stack around the API routes.
package mux

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/employee-hub/internal/application/health"
	"github.com/ahrav/employee-hub/internal/application/sdk/mid"
	"github.com/ahrav/employee-hub/pkg/common/logger"
)

const (
	livenessPath  = "/api/v1/health/liveness"
	readinessPath = "/api/v1/health/readiness"

	readinessTimeout = 2 * time.Second
)

// Options represent optional parameters.
type Options struct {
	corsOrigin []string
}

// WithCORS provides configuration options for CORS. An origin of "*" allows
// every origin.
func WithCORS(origins []string) func(opts *Options) {
	return func(opts *Options) {
		opts.corsOrigin = origins
	}
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log            *logger.Logger
	Pinger         Pinger
	TracerProvider trace.TracerProvider
	APIMetrics     mid.APIMetrics
	HealthMetrics  health.HealthMetrics
	RouteName      mid.RouteFunc
}

// healthHandler provides health check endpoints for liveness and readiness probes.
type healthHandler struct {
	pinger  Pinger
	metrics health.HealthMetrics
	log     *logger.Logger
}

type healthStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func writeStatus(w http.ResponseWriter, code int, body healthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// Liveness returns a simple handler for liveness probe.
// The liveness probe is used to know when to restart a container.
func (h *healthHandler) Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, healthStatus{Status: "up"})
	}
}

// Readiness returns a handler for readiness probe.
// It checks if the employee store answers a ping.
func (h *healthHandler) Readiness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			h.metrics.SetSystemHealth(ctx, false)
			h.log.Warn(ctx, "readiness check failed", "error", err)
			writeStatus(w, http.StatusServiceUnavailable, healthStatus{Status: "down", Reason: "store unavailable"})
			return
		}

		h.metrics.SetSystemHealth(ctx, true)
		writeStatus(w, http.StatusOK, healthStatus{Status: "up"})
	}
}

// WrapWithMiddleware applies the standard middleware stack to the API handler
// and mounts the health probes beside it. Probes are served without the
// middleware stack.
func WrapWithMiddleware(cfg Config, handler http.Handler, options ...func(opts *Options)) http.Handler {
	var opts Options
	for _, option := range options {
		option(&opts)
	}

	wrapped := mid.Chain(handler, mid.GetMiddlewareChain(cfg.Log, cfg.TracerProvider, cfg.APIMetrics, cfg.RouteName)...)

	hh := &healthHandler{pinger: cfg.Pinger, metrics: cfg.HealthMetrics, log: cfg.Log}

	finalMux := http.NewServeMux()
	finalMux.HandleFunc(livenessPath, hh.Liveness())
	finalMux.HandleFunc(readinessPath, hh.Readiness())
	finalMux.Handle("/", wrapped)

	if len(opts.corsOrigin) == 0 {
		return finalMux
	}

	return cors.New(cors.Options{
		AllowedOrigins: opts.corsOrigin,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	}).Handler(finalMux)
}
