package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dczia/Defcon32-Badge/internal/config"
	"github.com/dczia/Defcon32-Badge/internal/metrics"
	"github.com/dczia/Defcon32-Badge/internal/recorder"
)

// Prometheus collectors register globally, so create them once per test run
var (
	testMetricsOnce sync.Once
	testMetrics     *metrics.Metrics
)

func getTestMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.NewMetrics()
	})
	return testMetrics
}

type fakeStates struct {
	current string
}

func (f fakeStates) Current() string { return f.current }

type fakeRecording struct {
	stats recorder.SessionStats
	ok    bool
}

func (f fakeRecording) SessionStats() (recorder.SessionStats, bool) { return f.stats, f.ok }

func newTestServer(states StateSource, recording RecordingSource) *HTTPServer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.DebugConfig{Enabled: true, Address: "127.0.0.1", Port: 9090}
	return NewHTTPServer(cfg, logger, getTestMetrics(), states, recording)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != 200 {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}

	if body["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", body["status"])
	}
}

func TestHandleHealthRejectsPost(t *testing.T) {
	s := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest("POST", "/healthz", nil))

	if rec.Code != 405 {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(
		fakeStates{current: "party"},
		fakeRecording{stats: recorder.SessionStats{TargetBytes: 220500, BytesWritten: 1000}, ok: true},
	)

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest("GET", "/status", nil))

	if rec.Code != 200 {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var body struct {
		CurrentState string                `json:"current_state"`
		Recording    recorder.SessionStats `json:"recording"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode status response: %v", err)
	}

	if body.CurrentState != "party" {
		t.Errorf("Expected current state 'party', got %q", body.CurrentState)
	}

	if body.Recording.TargetBytes != 220500 {
		t.Errorf("Expected target bytes 220500, got %d", body.Recording.TargetBytes)
	}
}

func TestHandleStatusWithoutSources(t *testing.T) {
	s := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest("GET", "/status", nil))

	if rec.Code != 200 {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode status response: %v", err)
	}

	if _, present := body["current_state"]; present {
		t.Error("Expected no current_state field without a state source")
	}
}
