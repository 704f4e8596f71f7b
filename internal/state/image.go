package state

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/dczia/Defcon32-Badge/internal/periph"
)

// ImageDisplayState shows a configured image scaled to the display
type ImageDisplayState struct {
	display periph.Display
	latch   pressLatch
	path    string
}

// NewImageDisplayState creates the image viewer for the given file
func NewImageDisplayState(display periph.Display, button periph.Button, path string) *ImageDisplayState {
	return &ImageDisplayState{
		display: display,
		latch:   pressLatch{button: button},
		path:    path,
	}
}

func (s *ImageDisplayState) Name() string { return "image" }

func (s *ImageDisplayState) Enter(m *Machine) error {
	s.display.Clear()

	img, err := loadImage(s.path)
	if err != nil {
		// A missing image is not fatal to the UI; show the failure instead
		s.display.DrawText(0, 0, "No image", white)
		return nil
	}

	w, h := s.display.Size()
	s.display.DrawImage(0, 0, scaleImage(img, w, h))
	return nil
}

func (s *ImageDisplayState) Exit(m *Machine) error {
	return nil
}

func (s *ImageDisplayState) Update(m *Machine) error {
	if s.latch.Fired() {
		return m.GoTo("menu")
	}
	return nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return img, nil
}

// scaleImage resizes img to fit within width x height preserving aspect
func scaleImage(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return img
	}

	scaleW := float64(width) / float64(b.Dx())
	scaleH := float64(height) / float64(b.Dy())
	scale := min(scaleW, scaleH)

	dst := image.NewRGBA(image.Rect(0, 0, int(float64(b.Dx())*scale), int(float64(b.Dy())*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
