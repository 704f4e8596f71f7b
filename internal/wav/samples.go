package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EncodeSamples builds a complete mono PCM-16 WAV file from samples. Used
// for generated audio such as SSTV transmissions, where the whole signal is
// in memory rather than streamed from the microphone.
func EncodeSamples(samples []int16, sampleRate int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio samples")
	}

	header := Header{
		SampleRate:    uint32(sampleRate),
		BitsPerSample: 16,
		NumChannels:   1,
		NumSamples:    uint32(len(samples)),
	}

	headerBytes, err := header.Encode()
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(samples)*2))
	buf.Write(headerBytes)

	if err := binary.Write(buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}

	return buf.Bytes(), nil
}
