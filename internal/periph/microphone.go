package periph

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Microphone is a PortAudio-backed AudioInput used by the host build in
// place of the badge's I2S bus. It captures mono or stereo 16-bit PCM from
// the default input device.
type Microphone struct {
	stream  *portaudio.Stream
	frames  []int16
	pending []byte // bytes captured but not yet consumed by ReadInto
}

// MicrophoneConfig describes the capture stream
type MicrophoneConfig struct {
	SampleRate  int
	Channels    int
	BufferBytes int // internal buffer size, in bytes of 16-bit PCM
}

// NewMicrophone initializes PortAudio and opens a started capture stream
func NewMicrophone(cfg MicrophoneConfig) (*Microphone, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", cfg.SampleRate)
	}

	if cfg.Channels != 1 && cfg.Channels != 2 {
		return nil, fmt.Errorf("channels must be 1 or 2, got %d", cfg.Channels)
	}

	if cfg.BufferBytes < 2*cfg.Channels {
		return nil, fmt.Errorf("buffer size %d too small for one frame", cfg.BufferBytes)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize audio backend: %w", err)
	}

	framesPerBuffer := cfg.BufferBytes / 2 / cfg.Channels
	frames := make([]int16, framesPerBuffer*cfg.Channels)

	stream, err := portaudio.OpenDefaultStream(cfg.Channels, 0, float64(cfg.SampleRate), framesPerBuffer, frames)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open capture stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start capture stream: %w", err)
	}

	return &Microphone{stream: stream, frames: frames}, nil
}

// ReadInto blocks for the next hardware buffer and copies as many captured
// bytes as fit. Bytes that do not fit are kept for the following call so no
// samples are dropped at the boundary.
func (m *Microphone) ReadInto(buf []byte) (int, error) {
	if len(m.pending) == 0 {
		if err := m.stream.Read(); err != nil {
			return 0, fmt.Errorf("capture read failed: %w", err)
		}

		m.pending = make([]byte, len(m.frames)*2)
		for i, s := range m.frames {
			m.pending[2*i] = byte(s)
			m.pending[2*i+1] = byte(s >> 8)
		}
	}

	n := copy(buf, m.pending)
	m.pending = m.pending[n:]
	return n, nil
}

// Close stops and releases the capture stream and the audio backend
func (m *Microphone) Close() error {
	var err error
	if m.stream != nil {
		if stopErr := m.stream.Stop(); stopErr != nil {
			err = stopErr
		}
		if closeErr := m.stream.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		m.stream = nil
	}
	portaudio.Terminate()
	return err
}
