package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the badge
type Metrics struct {
	// Recorder metrics
	SampleBytesWritten  prometheus.Counter
	StarvedReads        prometheus.Counter
	CaptureIterations   prometheus.Counter
	RecordingsCompleted prometheus.Counter
	RecordingsFailed    prometheus.Counter
	RecordingDuration   prometheus.Histogram
	WriteChunkSize      prometheus.Histogram

	// State machine metrics
	StateTransitions *prometheus.CounterVec
	UpdateTicks      prometheus.Counter
	HookErrors       *prometheus.CounterVec

	// Debug HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		SampleBytesWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "badge_sample_bytes_written_total",
			Help: "Total number of PCM sample bytes written to storage",
		}),
		StarvedReads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "badge_starved_reads_total",
			Help: "Total number of capture reads that returned zero bytes",
		}),
		CaptureIterations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "badge_capture_iterations_total",
			Help: "Total number of capture loop iterations",
		}),
		RecordingsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "badge_recordings_completed_total",
			Help: "Total number of recordings that reached their target size",
		}),
		RecordingsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "badge_recordings_failed_total",
			Help: "Total number of recordings terminated early by an error",
		}),
		RecordingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "badge_recording_duration_seconds",
			Help:    "Wall-clock duration of recordings",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s to ~2 minutes
		}),
		WriteChunkSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "badge_write_chunk_bytes",
			Help:    "Size of individual sample chunks written to storage",
			Buckets: prometheus.ExponentialBuckets(256, 2, 10), // 256B to ~128KB
		}),

		StateTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "badge_state_transitions_total",
			Help: "Total number of UI state transitions",
		}, []string{"from", "to"}),
		UpdateTicks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "badge_update_ticks_total",
			Help: "Total number of state machine update ticks",
		}),
		HookErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "badge_state_hook_errors_total",
			Help: "Total number of errors returned by state lifecycle hooks",
		}, []string{"state", "hook"}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "badge_http_requests_total",
			Help: "Total number of debug HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "badge_http_request_duration_seconds",
			Help:    "Duration of debug HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// RecordCaptureIteration records one pass through the capture loop
func (m *Metrics) RecordCaptureIteration(bytesRead, bytesWritten int) {
	m.CaptureIterations.Inc()
	if bytesRead == 0 {
		m.StarvedReads.Inc()
	}
	if bytesWritten > 0 {
		m.SampleBytesWritten.Add(float64(bytesWritten))
		m.WriteChunkSize.Observe(float64(bytesWritten))
	}
}

// RecordRecordingCompleted records a recording that reached its target size
func (m *Metrics) RecordRecordingCompleted(durationSeconds float64) {
	m.RecordingsCompleted.Inc()
	m.RecordingDuration.Observe(durationSeconds)
}

// RecordRecordingFailed records a recording terminated early
func (m *Metrics) RecordRecordingFailed(durationSeconds float64) {
	m.RecordingsFailed.Inc()
	m.RecordingDuration.Observe(durationSeconds)
}

// RecordStateTransition records a transition between two named states
func (m *Metrics) RecordStateTransition(from, to string) {
	m.StateTransitions.WithLabelValues(from, to).Inc()
}

// RecordUpdateTick increments the update tick counter
func (m *Metrics) RecordUpdateTick() {
	m.UpdateTicks.Inc()
}

// RecordHookError records an error from a state's enter/update/exit hook
func (m *Metrics) RecordHookError(state, hook string) {
	m.HookErrors.WithLabelValues(state, hook).Inc()
}

// RecordHTTPRequest records a debug HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}
