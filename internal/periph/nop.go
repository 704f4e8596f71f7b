package periph

import (
	"image"
	"image/color"
)

// NopDisplay discards all drawing. Used by headless runs where only the
// debug server observes the machine.
type NopDisplay struct{}

func (NopDisplay) Clear() {}

func (NopDisplay) DrawText(x, y int, text string, c color.RGBA) {}

func (NopDisplay) DrawImage(x, y int, img image.Image) {}

func (NopDisplay) Size() (int, int) { return 320, 240 }

// NopButton never reads pressed
type NopButton struct{}

func (NopButton) Pressed() bool { return false }

// NopRotary never reports rotation
type NopRotary struct{}

func (NopRotary) Delta() int { return 0 }

// StarvedInput is an AudioInput that always returns zero bytes, modelling a
// peripheral with nothing to deliver.
type StarvedInput struct{}

func (StarvedInput) ReadInto(buf []byte) (int, error) { return 0, nil }

func (StarvedInput) Close() error { return nil }
