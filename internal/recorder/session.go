package recorder

import (
	"sync"
	"time"
)

// Session tracks cumulative sample bytes written against the precomputed
// recording target. It is the only bookkeeping shared with the debug server,
// so reads go through a lock even though the capture loop itself is
// single-threaded.
type Session struct {
	targetBytes int
	written     int
	startTime   time.Time

	mu sync.RWMutex
}

// SessionStats is a snapshot of recording progress for monitoring
type SessionStats struct {
	TargetBytes    int     `json:"target_bytes"`
	BytesWritten   int     `json:"bytes_written"`
	Complete       bool    `json:"complete"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// NewSession creates a session targeting the given number of sample bytes
func NewSession(targetBytes int) *Session {
	return &Session{
		targetBytes: targetBytes,
		startTime:   time.Now(),
	}
}

// Add accumulates written sample bytes
func (s *Session) Add(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written += n
}

// Remaining returns the number of sample bytes still to be written
func (s *Session) Remaining() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.targetBytes - s.written
}

// Written returns the cumulative sample bytes written so far
func (s *Session) Written() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.written
}

// Done reports whether the target has been reached
func (s *Session) Done() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.written >= s.targetBytes
}

// Elapsed returns the wall-clock time since the session started
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// Stats returns a snapshot of session progress
func (s *Session) Stats() SessionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionStats{
		TargetBytes:    s.targetBytes,
		BytesWritten:   s.written,
		Complete:       s.written >= s.targetBytes,
		ElapsedSeconds: time.Since(s.startTime).Seconds(),
	}
}
