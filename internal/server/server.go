// Package server exposes the relay engine over JSON HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/config"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/executor"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/metrics"
)

// Server hosts the relay HTTP surface.
type Server struct {
	exec      *executor.Executor
	collector *metrics.Collector
	logger    *slog.Logger
	httpSrv   *http.Server
}

// New builds a Server from the engine components.
func New(cfg config.ServerConfig, exec *executor.Executor, collector *metrics.Collector, logger *slog.Logger) *Server {
	s := &Server{
		exec:      exec,
		collector: collector,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/execute", s.handleExecute)
	mux.HandleFunc("/api/v1/batch", s.handleBatch)
	mux.HandleFunc("/api/v1/capabilities", s.handleCapabilities)
	mux.HandleFunc("/api/v1/metrics", s.handleMetrics)
	mux.HandleFunc("/api/v1/dashboard", s.handleDashboard)
	mux.HandleFunc("/health", s.handleHealth)

	// OpenTelemetry prometheus exporter registers against the default
	// registry; this endpoint is what a Prometheus server scrapes.
	mux.Handle("/metrics", promhttp.Handler())

	s.httpSrv = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.recordRequests(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// ListenAndServe starts serving and blocks until the listener fails or
// Shutdown is called. http.ErrServerClosed is not returned as an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// statusRecorder captures the response status for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// recordRequests feeds every request into the metrics collector.
func (s *Server) recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.collector.RecordRequest(r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
