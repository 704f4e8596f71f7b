package sstv

import "image"

// silenceEncoder stands in until a real codec service is linked. It emits a
// correctly sized block of silence so the transmit path (scaling, WAV
// encode, storage write) is exercised end to end.
type silenceEncoder struct {
	mode Mode
}

// NewSilenceEncoder returns an Encoder producing silence in the given mode
func NewSilenceEncoder(mode Mode) Encoder {
	return &silenceEncoder{mode: mode}
}

func (e *silenceEncoder) Mode() Mode { return e.mode }

func (e *silenceEncoder) Encode(img image.Image) ([]int16, error) {
	n := int(float64(e.mode.Height) * e.mode.LineTime * float64(e.mode.SampleRate))
	if n < 1 {
		n = e.mode.SampleRate // one second minimum
	}
	return make([]int16, n), nil
}

// nullDecoder consumes samples without producing lines
type nullDecoder struct {
	mode Mode
}

// NewNullDecoder returns a Decoder that discards its input
func NewNullDecoder(mode Mode) Decoder {
	return &nullDecoder{mode: mode}
}

func (d *nullDecoder) Mode() Mode { return d.mode }

func (d *nullDecoder) Feed(samples []int16) ([]Line, error) { return nil, nil }

func (d *nullDecoder) Reset() {}

// ScottieS1 is the transmission mode the badge defaults to
var ScottieS1 = Mode{
	Name:       "Scottie S1",
	Width:      320,
	Height:     256,
	SampleRate: 22050,
	LineTime:   0.42822,
}
