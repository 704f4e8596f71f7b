package state

import (
	"fmt"
	"log/slog"

	"github.com/dczia/Defcon32-Badge/internal/periph"
	"github.com/dczia/Defcon32-Badge/internal/sstv"
	"github.com/dczia/Defcon32-Badge/internal/wav"
)

// SSTVEncoderState encodes the badge image into an SSTV audio transmission
// and writes it as a WAV file to storage. The encode runs once per entry, on
// the first update tick after the screen has been drawn.
type SSTVEncoderState struct {
	display    periph.Display
	latch      pressLatch
	encoder    sstv.Encoder
	storage    periph.Storage
	imagePath  string
	outputFile string
	encoded    bool
}

// NewSSTVEncoderState creates the SSTV transmit screen
func NewSSTVEncoderState(display periph.Display, button periph.Button, encoder sstv.Encoder,
	storage periph.Storage, imagePath, outputFile string) *SSTVEncoderState {
	return &SSTVEncoderState{
		display:    display,
		latch:      pressLatch{button: button},
		encoder:    encoder,
		storage:    storage,
		imagePath:  imagePath,
		outputFile: outputFile,
	}
}

func (s *SSTVEncoderState) Name() string { return "sstv_encode" }

func (s *SSTVEncoderState) Enter(m *Machine) error {
	s.encoded = false
	s.display.Clear()
	s.display.DrawText(0, 0, "SSTV TX", green)
	s.display.DrawText(0, 16, "Encoding "+s.encoder.Mode().Name+"...", white)
	return nil
}

func (s *SSTVEncoderState) Exit(m *Machine) error {
	return nil
}

func (s *SSTVEncoderState) Update(m *Machine) error {
	if !s.encoded {
		s.encoded = true
		if err := s.encodeOnce(); err != nil {
			s.display.DrawText(0, 32, "Encode failed", white)
			m.logger.Error("SSTV encode failed", slog.String("error", err.Error()))
		} else {
			s.display.DrawText(0, 32, "Saved "+s.outputFile, white)
		}
		return nil
	}

	if s.latch.Fired() {
		return m.GoTo("menu")
	}
	return nil
}

func (s *SSTVEncoderState) encodeOnce() error {
	if s.storage == nil {
		return fmt.Errorf("no storage mounted")
	}

	img, err := loadImage(s.imagePath)
	if err != nil {
		return err
	}

	mode := s.encoder.Mode()
	samples, err := s.encoder.Encode(scaleImage(img, mode.Width, mode.Height))
	if err != nil {
		return fmt.Errorf("encoder failed: %w", err)
	}

	data, err := wav.EncodeSamples(samples, mode.SampleRate)
	if err != nil {
		return err
	}

	f, err := s.storage.Create(s.outputFile)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write transmission: %w", err)
	}

	return f.Close()
}
