package wav

import (
	"encoding/binary"
	"testing"
)

func TestEncodeHeaderLayout(t *testing.T) {
	// 22050 Hz, 16-bit, mono, 5 seconds
	h := Header{
		SampleRate:    22050,
		BitsPerSample: 16,
		NumChannels:   1,
		NumSamples:    22050 * 5,
	}

	data, err := h.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if len(data) != HeaderSize {
		t.Fatalf("Expected %d header bytes, got %d", HeaderSize, len(data))
	}

	if string(data[0:4]) != "RIFF" {
		t.Errorf("Expected RIFF marker, got %q", data[0:4])
	}

	if string(data[8:12]) != "WAVE" {
		t.Errorf("Expected WAVE marker, got %q", data[8:12])
	}

	if string(data[12:16]) != "fmt " {
		t.Errorf("Expected fmt marker, got %q", data[12:16])
	}

	if string(data[36:40]) != "data" {
		t.Errorf("Expected data marker, got %q", data[36:40])
	}

	dataSize := binary.LittleEndian.Uint32(data[40:44])
	if dataSize != 220500 {
		t.Errorf("Expected data size 220500, got %d", dataSize)
	}

	fileSize := binary.LittleEndian.Uint32(data[4:8])
	if fileSize != 220536 {
		t.Errorf("Expected file size field 220536, got %d", fileSize)
	}

	if fmtLen := binary.LittleEndian.Uint32(data[16:20]); fmtLen != 16 {
		t.Errorf("Expected format chunk length 16, got %d", fmtLen)
	}

	if tag := binary.LittleEndian.Uint16(data[20:22]); tag != 1 {
		t.Errorf("Expected PCM format tag 1, got %d", tag)
	}

	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 22050 {
		t.Errorf("Expected sample rate 22050, got %d", rate)
	}

	if byteRate := binary.LittleEndian.Uint32(data[28:32]); byteRate != 44100 {
		t.Errorf("Expected byte rate 44100, got %d", byteRate)
	}

	if blockAlign := binary.LittleEndian.Uint16(data[32:34]); blockAlign != 2 {
		t.Errorf("Expected block align 2, got %d", blockAlign)
	}

	if bits := binary.LittleEndian.Uint16(data[34:36]); bits != 16 {
		t.Errorf("Expected 16 bits per sample, got %d", bits)
	}
}

func TestHeaderDerivedSizes(t *testing.T) {
	tests := []struct {
		name     string
		header   Header
		dataSize uint32
	}{
		{
			name:     "mono 16-bit 8kHz one second",
			header:   Header{SampleRate: 8000, BitsPerSample: 16, NumChannels: 1, NumSamples: 8000},
			dataSize: 16000,
		},
		{
			name:     "stereo 16-bit 44.1kHz",
			header:   Header{SampleRate: 44100, BitsPerSample: 16, NumChannels: 2, NumSamples: 44100},
			dataSize: 176400,
		},
		{
			name:     "mono 8-bit",
			header:   Header{SampleRate: 16000, BitsPerSample: 8, NumChannels: 1, NumSamples: 1234},
			dataSize: 1234,
		},
		{
			name:     "empty recording",
			header:   Header{SampleRate: 22050, BitsPerSample: 16, NumChannels: 1, NumSamples: 0},
			dataSize: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.header.DataSize(); got != tt.dataSize {
				t.Errorf("Expected data size %d, got %d", tt.dataSize, got)
			}
			if got := tt.header.FileSize(); got != tt.dataSize+36 {
				t.Errorf("Expected file size %d, got %d", tt.dataSize+36, got)
			}
		})
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	original := Header{
		SampleRate:    22050,
		BitsPerSample: 16,
		NumChannels:   1,
		NumSamples:    110250,
	}

	data, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if parsed != original {
		t.Errorf("Round trip mismatch: expected %+v, got %+v", original, parsed)
	}
}

func TestParseRejectsInvalidHeaders(t *testing.T) {
	valid, err := Header{SampleRate: 8000, BitsPerSample: 16, NumChannels: 1, NumSamples: 100}.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	corrupt := func(offset int, b []byte) []byte {
		out := make([]byte, len(valid))
		copy(out, valid)
		copy(out[offset:], b)
		return out
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"too short", valid[:20]},
		{"missing RIFF", corrupt(0, []byte("RIFX"))},
		{"missing WAVE", corrupt(8, []byte("EVAW"))},
		{"missing fmt chunk", corrupt(12, []byte("xmt "))},
		{"missing data chunk", corrupt(36, []byte("DATA"))},
		{"non-PCM format tag", corrupt(20, []byte{3, 0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.data); err == nil {
				t.Error("Expected parse error, got nil")
			}
		})
	}
}

func TestHeaderValidate(t *testing.T) {
	tests := []struct {
		name   string
		header Header
	}{
		{"zero sample rate", Header{BitsPerSample: 16, NumChannels: 1}},
		{"zero bit depth", Header{SampleRate: 8000, NumChannels: 1}},
		{"non-byte bit depth", Header{SampleRate: 8000, BitsPerSample: 12, NumChannels: 1}},
		{"zero channels", Header{SampleRate: 8000, BitsPerSample: 16}},
		{"three channels", Header{SampleRate: 8000, BitsPerSample: 16, NumChannels: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.header.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
			if _, err := tt.header.Encode(); err == nil {
				t.Error("Expected encode error, got nil")
			}
		})
	}
}

func TestHeaderDuration(t *testing.T) {
	h := Header{SampleRate: 22050, BitsPerSample: 16, NumChannels: 1, NumSamples: 110250}
	if got := h.Duration(); got != 5.0 {
		t.Errorf("Expected duration 5.0s, got %f", got)
	}
}
