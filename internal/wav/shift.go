package wav

import "fmt"

// Shift applies an in-place arithmetic right shift to every sample in buf,
// discarding low-order bits delivered by the microphone hardware beyond the
// target sample width. buf holds little-endian PCM samples of sampleBits
// width; a negative shift moves bits left instead. The tested microphone
// configuration shifts 16-bit samples by 4.
func Shift(buf []byte, sampleBits, shift int) error {
	if sampleBits != 16 && sampleBits != 32 {
		return fmt.Errorf("sample width must be 16 or 32 bits, got %d", sampleBits)
	}

	bytesPerSample := sampleBits / 8
	if len(buf)%bytesPerSample != 0 {
		return fmt.Errorf("buffer length %d is not a multiple of the %d-byte sample size", len(buf), bytesPerSample)
	}

	if shift == 0 {
		return nil
	}

	switch sampleBits {
	case 16:
		for i := 0; i < len(buf); i += 2 {
			s := int16(buf[i]) | int16(buf[i+1])<<8
			if shift > 0 {
				s >>= shift
			} else {
				s <<= -shift
			}
			buf[i] = byte(s)
			buf[i+1] = byte(s >> 8)
		}
	case 32:
		for i := 0; i < len(buf); i += 4 {
			s := int32(buf[i]) | int32(buf[i+1])<<8 | int32(buf[i+2])<<16 | int32(buf[i+3])<<24
			if shift > 0 {
				s >>= shift
			} else {
				s <<= -shift
			}
			buf[i] = byte(s)
			buf[i+1] = byte(s >> 8)
			buf[i+2] = byte(s >> 16)
			buf[i+3] = byte(s >> 24)
		}
	}

	return nil
}
