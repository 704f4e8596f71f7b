// Package recorder implements the bounded audio capture loop: it reads
// fixed-size chunks from the audio input into a reusable buffer, normalizes
// sample width by discarding low-order bits, and writes a headered WAV file
// to removable storage until the target duration's worth of bytes is reached.
package recorder
