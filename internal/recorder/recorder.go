package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dczia/Defcon32-Badge/internal/metrics"
	"github.com/dczia/Defcon32-Badge/internal/periph"
	"github.com/dczia/Defcon32-Badge/internal/wav"
)

// defaultReadBufferBytes sizes the reusable capture buffer when the
// configuration does not specify one.
const defaultReadBufferBytes = 10000

// Config contains the parameters of one recording
type Config struct {
	SampleRate      int
	BitsPerSample   int
	Channels        int
	RecordSeconds   int
	ShiftBits       int    // low-order bits discarded from each sample
	OutputFile      string // filename on the storage mount
	ReadBufferBytes int    // reusable buffer capacity, 0 for the default
}

// Validate checks the recording parameters
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}

	if c.BitsPerSample != 16 && c.BitsPerSample != 32 {
		return fmt.Errorf("bits per sample must be 16 or 32, got %d", c.BitsPerSample)
	}

	if c.Channels != 1 && c.Channels != 2 {
		return fmt.Errorf("channels must be 1 or 2, got %d", c.Channels)
	}

	if c.RecordSeconds < 1 {
		return fmt.Errorf("record seconds must be at least 1, got %d", c.RecordSeconds)
	}

	if c.ShiftBits < 0 || c.ShiftBits >= c.BitsPerSample {
		return fmt.Errorf("shift bits must be between 0 and %d, got %d", c.BitsPerSample-1, c.ShiftBits)
	}

	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}

	if c.ReadBufferBytes < 0 {
		return fmt.Errorf("read buffer size cannot be negative, got %d", c.ReadBufferBytes)
	}

	return nil
}

// TargetBytes returns the total sample bytes of a complete recording
func (c *Config) TargetBytes() int {
	return c.RecordSeconds * c.SampleRate * (c.BitsPerSample / 8) * c.Channels
}

// Recorder writes one bounded microphone recording to a WAV file on the
// storage mount. The capture loop is blocking and single-threaded; the input
// peripheral, storage mount, and output file are owned exclusively by Record
// and released in a fixed cleanup sequence on every exit path.
type Recorder struct {
	cfg     Config
	input   periph.AudioInput
	storage periph.Storage
	logger  *slog.Logger
	metrics *metrics.Metrics

	session *Session
	mu      sync.RWMutex
}

// New creates a Recorder. metrics may be nil when instrumentation is not
// wired up (tests).
func New(cfg Config, input periph.AudioInput, storage periph.Storage, logger *slog.Logger, m *metrics.Metrics) (*Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("recorder config: %w", err)
	}

	if cfg.ReadBufferBytes == 0 {
		cfg.ReadBufferBytes = defaultReadBufferBytes
	}

	return &Recorder{
		cfg:     cfg,
		input:   input,
		storage: storage,
		logger:  logger,
		metrics: m,
	}, nil
}

// Record captures audio until the target size is reached or the loop is
// terminated early by an error or context cancellation. The WAV header is
// written before any sample data and claims the full target size; a
// truncated recording keeps that header, so the size fields overstate the
// data actually present.
func (r *Recorder) Record(ctx context.Context) (err error) {
	header := wav.Header{
		SampleRate:    uint32(r.cfg.SampleRate),
		BitsPerSample: uint16(r.cfg.BitsPerSample),
		NumChannels:   uint16(r.cfg.Channels),
		NumSamples:    uint32(r.cfg.RecordSeconds * r.cfg.SampleRate),
	}

	headerBytes, err := header.Encode()
	if err != nil {
		return fmt.Errorf("failed to build WAV header: %w", err)
	}

	session := NewSession(r.cfg.TargetBytes())
	r.mu.Lock()
	r.session = session
	r.mu.Unlock()

	file, err := r.storage.Create(r.cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}

	// Fixed cleanup sequence on every exit path: close the file, unmount
	// the storage, release the input peripheral.
	defer func() {
		if cerr := file.Close(); cerr != nil {
			r.logger.Error("Failed to close output file", slog.String("error", cerr.Error()))
		}
		if uerr := r.storage.Unmount(); uerr != nil {
			r.logger.Error("Failed to unmount storage", slog.String("error", uerr.Error()))
		}
		if ierr := r.input.Close(); ierr != nil {
			r.logger.Error("Failed to release audio input", slog.String("error", ierr.Error()))
		}

		duration := session.Elapsed().Seconds()
		if r.metrics != nil {
			if err == nil {
				r.metrics.RecordRecordingCompleted(duration)
			} else {
				r.metrics.RecordRecordingFailed(duration)
			}
		}

		r.logger.Info("Recording finished",
			slog.Int("sample_bytes_written", session.Written()),
			slog.Int("target_bytes", session.Stats().TargetBytes),
			slog.Bool("complete", session.Done()),
		)
	}()

	if _, err := file.Write(headerBytes); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}

	r.logger.Info("Recording started",
		slog.String("output_file", r.cfg.OutputFile),
		slog.Int("target_bytes", r.cfg.TargetBytes()),
		slog.Int("sample_rate", r.cfg.SampleRate),
		slog.Int("bits_per_sample", r.cfg.BitsPerSample),
		slog.Int("channels", r.cfg.Channels),
	)

	// Reusable capture buffer; no per-iteration allocation
	buf := make([]byte, r.cfg.ReadBufferBytes)

	for !session.Done() {
		if ctx.Err() != nil {
			return fmt.Errorf("recording interrupted: %w", ctx.Err())
		}

		n, readErr := r.input.ReadInto(buf)
		if readErr != nil {
			return fmt.Errorf("capture read failed: %w", readErr)
		}

		written := 0
		if n > 0 {
			if shiftErr := wav.Shift(buf[:n], r.cfg.BitsPerSample, r.cfg.ShiftBits); shiftErr != nil {
				return fmt.Errorf("sample shift failed: %w", shiftErr)
			}

			// The peripheral may deliver more than the recording still
			// needs; never write past the target.
			toWrite := min(n, session.Remaining())

			written, err = file.Write(buf[:toWrite])
			if err != nil {
				return fmt.Errorf("failed to write samples: %w", err)
			}

			session.Add(written)
		}

		if r.metrics != nil {
			r.metrics.RecordCaptureIteration(n, written)
		}
	}

	return nil
}

// SessionStats returns progress of the current or most recent recording
func (r *Recorder) SessionStats() (SessionStats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.session == nil {
		return SessionStats{}, false
	}
	return r.session.Stats(), true
}
