package periph

import (
	"image"
	"image/color"
	"io"
)

// AudioInput is a blocking sample source such as the I2S microphone.
// ReadInto fills buf with raw little-endian PCM bytes and returns the number
// of bytes actually read, which may be less than len(buf) or zero when the
// peripheral is starved.
type AudioInput interface {
	ReadInto(buf []byte) (int, error)
	Close() error
}

// Display is the badge screen. Coordinates are in pixels with the origin at
// the top-left corner.
type Display interface {
	Clear()
	DrawText(x, y int, text string, c color.RGBA)
	DrawImage(x, y int, img image.Image)
	Size() (width, height int)
}

// Button is a single digital input. Pressed reports the debounced logical
// state; implementations translate the hardware's logic-low-when-pressed
// convention.
type Button interface {
	Pressed() bool
}

// RotaryEncoder reports accumulated detents since the previous call to
// Delta. Clockwise rotation is positive.
type RotaryEncoder interface {
	Delta() int
}

// Storage is the removable storage mount recordings are written to
type Storage interface {
	// Create opens a named file on the mount for writing, truncating any
	// existing content.
	Create(name string) (io.WriteCloser, error)
	// Unmount releases the mount. No file operations are valid afterward.
	Unmount() error
}
