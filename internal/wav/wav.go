package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// HeaderSize is the size in bytes of the canonical RIFF/WAV header.
const HeaderSize = 44

// Header holds the parameters a WAV header is derived from.
// The byte layout produced by Encode is fixed-format: "RIFF", file size,
// "WAVE", "fmt " chunk (PCM), "data" chunk size, immediately followed by
// raw little-endian PCM sample bytes.
type Header struct {
	SampleRate    uint32
	BitsPerSample uint16
	NumChannels   uint16
	NumSamples    uint32
}

// rawHeader is the packed on-disk representation of a WAV header
type rawHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // File size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16  // Number of channels
	SampleRate    uint32  // Sample rate
	ByteRate      uint32  // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16  // NumChannels * BitsPerSample / 8
	BitsPerSample uint16  // Bits per sample
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // Number of bytes in the data
}

// Validate checks that the header parameters describe an encodable file
func (h Header) Validate() error {
	if h.SampleRate == 0 {
		return fmt.Errorf("sample rate must be positive, got %d", h.SampleRate)
	}

	if h.BitsPerSample == 0 || h.BitsPerSample%8 != 0 {
		return fmt.Errorf("bits per sample must be a positive multiple of 8, got %d", h.BitsPerSample)
	}

	if h.NumChannels != 1 && h.NumChannels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", h.NumChannels)
	}

	return nil
}

// DataSize returns the size in bytes of the PCM data the header describes:
// NumSamples * NumChannels * BitsPerSample/8.
func (h Header) DataSize() uint32 {
	return h.NumSamples * uint32(h.NumChannels) * uint32(h.BitsPerSample) / 8
}

// FileSize returns the value of the RIFF chunk size field (file size minus
// the 8 bytes of marker and size field themselves).
func (h Header) FileSize() uint32 {
	return h.DataSize() + 36
}

// Encode produces the bit-exact 44-byte header. It must be written to the
// output file before any sample data.
func (h Header) Encode() ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	raw := rawHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     h.FileSize(),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   h.NumChannels,
		SampleRate:    h.SampleRate,
		ByteRate:      h.SampleRate * uint32(h.NumChannels) * uint32(h.BitsPerSample) / 8,
		BlockAlign:    h.NumChannels * h.BitsPerSample / 8,
		BitsPerSample: h.BitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: h.DataSize(),
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize))
	if err := binary.Write(buf, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("failed to encode WAV header: %w", err)
	}

	return buf.Bytes(), nil
}

// Parse decodes a 44-byte WAV header back into its derivation parameters.
// Parsing a header produced by Encode recovers the exact inputs.
func Parse(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("WAV header too short: need at least %d bytes, got %d", HeaderSize, len(data))
	}

	var raw rawHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &raw); err != nil {
		return Header{}, fmt.Errorf("failed to read WAV header: %w", err)
	}

	if string(raw.ChunkID[:]) != "RIFF" {
		return Header{}, fmt.Errorf("invalid WAV file: missing RIFF header")
	}

	if string(raw.Format[:]) != "WAVE" {
		return Header{}, fmt.Errorf("invalid WAV file: missing WAVE format")
	}

	if string(raw.Subchunk1ID[:]) != "fmt " {
		return Header{}, fmt.Errorf("invalid WAV file: missing fmt chunk")
	}

	if string(raw.Subchunk2ID[:]) != "data" {
		return Header{}, fmt.Errorf("invalid WAV file: missing data chunk")
	}

	if raw.AudioFormat != 1 {
		return Header{}, fmt.Errorf("unsupported audio format: %d (only PCM is supported)", raw.AudioFormat)
	}

	if raw.NumChannels == 0 || raw.BitsPerSample == 0 {
		return Header{}, fmt.Errorf("invalid WAV header: zero channels or bit depth")
	}

	bytesPerFrame := uint32(raw.NumChannels) * uint32(raw.BitsPerSample) / 8

	return Header{
		SampleRate:    raw.SampleRate,
		BitsPerSample: raw.BitsPerSample,
		NumChannels:   raw.NumChannels,
		NumSamples:    raw.Subchunk2Size / bytesPerFrame,
	}, nil
}

// Duration returns the recording length in seconds described by the header
func (h Header) Duration() float64 {
	if h.SampleRate == 0 {
		return 0
	}
	return float64(h.NumSamples) / float64(h.SampleRate)
}
