package audio

import (
	"errors"
	"fmt"
	"time"
)

// Format describes raw PCM audio. Samples are signed little endian.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat is the synthesis model's native output format.
func DefaultFormat() Format {
	return Format{SampleRate: 24000, Channels: 1, BitDepth: 16}
}

// BytesPerFrame returns the size of one frame (all channels of one sample).
func (f Format) BytesPerFrame() int {
	return f.BitDepth / 8 * f.Channels
}

// ByteRate returns the number of bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.BytesPerFrame()
}

// Duration returns the play time of dataLen bytes of PCM in this format.
func (f Format) Duration(dataLen int) time.Duration {
	if f.SampleRate == 0 || f.BytesPerFrame() == 0 {
		return 0
	}
	frames := dataLen / f.BytesPerFrame()
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// Silence returns PCM silence of the given duration, frame aligned.
func (f Format) Silence(d time.Duration) []byte {
	frames := int(d * time.Duration(f.SampleRate) / time.Second)
	return make([]byte, frames*f.BytesPerFrame())
}

// Validate checks that PCM data is non-empty and frame aligned.
func (f Format) Validate(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty PCM data")
	}
	if frame := f.BytesPerFrame(); len(data)%frame != 0 {
		return fmt.Errorf("PCM data length %d not aligned to %d-byte frames", len(data), frame)
	}
	return nil
}
