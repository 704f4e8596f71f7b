// Package sstv declares the slow-scan television codec collaborators the UI
// states hand work to. The codec itself is an external service; this package
// only fixes the contract between it and the badge.
package sstv

import "image"

// Mode describes an SSTV transmission mode
type Mode struct {
	Name       string
	Width      int     // pixels per line
	Height     int     // lines per frame
	SampleRate int     // PCM sample rate of the generated/consumed audio
	LineTime   float64 // seconds per scan line
}

// Encoder converts an image into PCM-16 audio samples for transmission
type Encoder interface {
	Mode() Mode
	// Encode renders img in the encoder's mode and returns mono PCM-16
	// samples at the mode's sample rate.
	Encode(img image.Image) ([]int16, error)
}

// Decoder consumes PCM-16 audio and produces decoded scan lines
type Decoder interface {
	Mode() Mode
	// Feed pushes captured samples into the decoder. Completed scan lines
	// are returned as they become available; a nil slice means the decoder
	// needs more samples.
	Feed(samples []int16) ([]Line, error)
	// Reset discards any partially decoded state.
	Reset()
}

// Line is one decoded scan line
type Line struct {
	Index  int
	Pixels []uint8 // RGB triplets, 3*Mode.Width bytes
}
