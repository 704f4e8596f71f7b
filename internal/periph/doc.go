// Package periph defines the peripheral interfaces the badge firmware is
// written against (audio input, display, button, rotary encoder, storage)
// and the host-side implementations used when running off-hardware.
package periph
