package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dczia/Defcon32-Badge/internal/config"
	"github.com/dczia/Defcon32-Badge/internal/metrics"
	"github.com/dczia/Defcon32-Badge/internal/recorder"
)

// StateSource reports the UI's current state name
type StateSource interface {
	Current() string
}

// RecordingSource reports recording progress, if a recording has started
type RecordingSource interface {
	SessionStats() (recorder.SessionStats, bool)
}

// HTTPServer exposes the debug endpoints: Prometheus metrics, a health
// check, and a status snapshot of the UI and recorder. It is development
// tooling; the badge itself has no network surface.
type HTTPServer struct {
	server    *http.Server
	logger    *slog.Logger
	metrics   *metrics.Metrics
	states    StateSource
	recording RecordingSource
	startTime time.Time
}

// NewHTTPServer creates the debug server. states and recording may be nil
// when the corresponding subsystem is not running in this process.
func NewHTTPServer(cfg config.DebugConfig, logger *slog.Logger, m *metrics.Metrics,
	states StateSource, recording RecordingSource) *HTTPServer {

	h := &HTTPServer{
		logger:    logger,
		metrics:   m,
		states:    states,
		recording: recording,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.withMetrics("/healthz", h.handleHealth))
	mux.HandleFunc("/status", h.withMetrics("/status", h.handleStatus))
	mux.Handle("/metrics", promhttp.Handler())

	h.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return h
}

// withMetrics wraps a handler with request instrumentation
func (h *HTTPServer) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(ww, r)

		h.metrics.RecordHTTPRequest(r.Method, endpoint,
			fmt.Sprintf("%d", ww.statusCode), time.Since(start).Seconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start begins serving in the background
func (h *HTTPServer) Start() error {
	h.logger.Info("Starting debug HTTP server",
		slog.String("address", h.server.Addr),
	)

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("Debug HTTP server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop gracefully stops the server
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.logger.Info("Stopping debug HTTP server...")
	return h.server.Shutdown(ctx)
}

// handleHealth implements the /healthz endpoint
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleStatus implements the /status endpoint
func (h *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := map[string]interface{}{
		"timestamp": time.Now().UTC(),
	}

	if h.states != nil {
		status["current_state"] = h.states.Current()
	}

	if h.recording != nil {
		if stats, ok := h.recording.SessionStats(); ok {
			status["recording"] = stats
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
