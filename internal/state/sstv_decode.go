package state

import (
	"image"
	"log/slog"

	"github.com/dczia/Defcon32-Badge/internal/periph"
	"github.com/dczia/Defcon32-Badge/internal/sstv"
)

// SSTVDecoderState feeds microphone audio to the SSTV decoder and draws
// decoded scan lines as they arrive.
type SSTVDecoderState struct {
	display periph.Display
	latch   pressLatch
	decoder sstv.Decoder
	input   periph.AudioInput

	buf []byte
}

// NewSSTVDecoderState creates the SSTV receive screen
func NewSSTVDecoderState(display periph.Display, button periph.Button,
	decoder sstv.Decoder, input periph.AudioInput) *SSTVDecoderState {
	return &SSTVDecoderState{
		display: display,
		latch:   pressLatch{button: button},
		decoder: decoder,
		input:   input,
		buf:     make([]byte, 2048),
	}
}

func (s *SSTVDecoderState) Name() string { return "sstv_decode" }

func (s *SSTVDecoderState) Enter(m *Machine) error {
	s.decoder.Reset()
	s.display.Clear()
	s.display.DrawText(0, 0, "SSTV RX "+s.decoder.Mode().Name, green)
	return nil
}

func (s *SSTVDecoderState) Exit(m *Machine) error {
	return nil
}

func (s *SSTVDecoderState) Update(m *Machine) error {
	if s.latch.Fired() {
		return m.GoTo("menu")
	}

	n, err := s.input.ReadInto(s.buf)
	if err != nil {
		m.logger.Error("SSTV capture read failed", slog.String("error", err.Error()))
		return m.GoTo("menu")
	}

	if n < 2 {
		return nil
	}

	samples := make([]int16, n/2)
	for i := range samples {
		samples[i] = int16(s.buf[2*i]) | int16(s.buf[2*i+1])<<8
	}

	lines, err := s.decoder.Feed(samples)
	if err != nil {
		m.logger.Warn("SSTV decode error", slog.String("error", err.Error()))
		s.decoder.Reset()
		return nil
	}

	for _, line := range lines {
		s.drawLine(line)
	}

	return nil
}

func (s *SSTVDecoderState) drawLine(line sstv.Line) {
	mode := s.decoder.Mode()
	img := image.NewRGBA(image.Rect(0, 0, mode.Width, 1))
	for x := 0; x < mode.Width && 3*x+2 < len(line.Pixels); x++ {
		i := img.PixOffset(x, 0)
		img.Pix[i] = line.Pixels[3*x]
		img.Pix[i+1] = line.Pixels[3*x+1]
		img.Pix[i+2] = line.Pixels[3*x+2]
		img.Pix[i+3] = 255
	}

	// Leave a text row above the image area
	s.display.DrawImage(0, 16+line.Index, img)
}
