package engines

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/audiblez/audiblez/internal/tts"
)

// mockBytesPerChar sizes the fake audio so duration scales with text length
// the way real synthesis does. At 24 kHz mono s16le this is ~1 ms per char.
const mockBytesPerChar = 48

// MockEngine is a synthesizer for tests. It produces silence proportional to
// the input length and can be configured to fail or to delay, to exercise
// error paths and cancellation.
type MockEngine struct {
	mu sync.Mutex

	voice string
	calls []string

	// Err, when set, is returned by every Synthesize call.
	Err error

	// Delay is slept (interruptibly) before returning audio.
	Delay time.Duration
}

// NewMockEngine creates a mock engine with the given voice.
func NewMockEngine(voice string) *MockEngine {
	return &MockEngine{voice: voice}
}

// Synthesize returns silence sized by the text length.
func (e *MockEngine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, tts.ErrEmptyText
	}

	e.mu.Lock()
	e.calls = append(e.calls, text)
	err, delay := e.Err, e.Delay
	e.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return make([]byte, len(text)*mockBytesPerChar), nil
}

// Info returns mock engine info matching the Kokoro output format.
func (e *MockEngine) Info() tts.EngineInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return tts.EngineInfo{
		Name:       "mock",
		Voice:      e.voice,
		SampleRate: KokoroSampleRate,
		Channels:   KokoroChannels,
		BitDepth:   KokoroBitDepth,
		Device:     tts.DeviceCPU,
	}
}

// Validate always succeeds.
func (e *MockEngine) Validate() error { return nil }

// Close releases nothing.
func (e *MockEngine) Close() error { return nil }

// Calls returns the texts synthesized so far.
func (e *MockEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

var _ tts.Engine = (*MockEngine)(nil)
