// Package wav implements the fixed-format 44-byte RIFF/WAV header used for
// microphone recordings, plus the sample bit-shift normalization applied to
// raw I2S microphone data before it is written to storage.
package wav
