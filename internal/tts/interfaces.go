package tts

import "context"

// Engine is the contract for speech synthesizers. The production
// implementation shells out to the Kokoro inference CLI; tests use a mock.
// Engines return raw PCM (16-bit signed little endian, mono) at the sample
// rate reported by Info.
type Engine interface {
	// Synthesize converts text to audio data. Implementations must honor
	// context cancellation and guard against hung inference processes.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// Info returns engine capabilities and configuration.
	Info() EngineInfo

	// Validate checks that the engine is usable before a conversion starts:
	// binary present, runnable, voice known.
	Validate() error

	// Close releases resources held by the engine.
	Close() error
}

// EngineInfo describes engine capabilities and configuration.
type EngineInfo struct {
	Name       string // engine name, e.g. "kokoro"
	Voice      string // active voice identifier
	SampleRate int    // audio sample rate in Hz
	Channels   int    // 1 = mono
	BitDepth   int    // bits per sample
	Device     Device // compute device used for inference
}
