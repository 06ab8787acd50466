// Package engines contains the synthesis engine implementations: Kokoro for
// production and a mock for tests.
package engines

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/audiblez/audiblez/internal/cache"
	"github.com/audiblez/audiblez/internal/tts"
)

// Kokoro audio output parameters. The model emits 24 kHz mono 16-bit PCM.
const (
	KokoroSampleRate = 24000
	KokoroChannels   = 1
	KokoroBitDepth   = 16
)

// Per-synthesis timeout: a base allowance plus time proportional to the text
// length. Chapters run for minutes on CPU.
const (
	baseTimeout    = 30 * time.Second
	timeoutPerChar = 40 * time.Millisecond
)

// KokoroEngine runs the Kokoro inference CLI as a fresh process per chapter
// with pre-configured stdin, the same pattern used for other offline TTS
// subprocesses: it avoids the race where the child reads stdin before the
// parent writes it.
type KokoroEngine struct {
	binary string
	voice  string
	speed  float64
	device tts.Device

	cache *cache.Cache

	mu sync.RWMutex
}

// KokoroConfig holds configuration for the Kokoro engine.
type KokoroConfig struct {
	// Binary overrides the inference CLI name (default "kokoro").
	Binary string

	// Voice is the catalog voice to synthesize with (required).
	Voice string

	// Speed is the narration speed multiplier (default 1.0).
	Speed float64

	// Device selects the compute backend (default best available).
	Device tts.Device

	// Cache is an optional audio cache consulted before inference.
	Cache *cache.Cache
}

// NewKokoroEngine creates a Kokoro engine from config.
func NewKokoroEngine(config KokoroConfig) (*KokoroEngine, error) {
	if !tts.KnownVoice(config.Voice) {
		return nil, fmt.Errorf("%w: %q", tts.ErrUnknownVoice, config.Voice)
	}
	if config.Binary == "" {
		config.Binary = "kokoro"
	}
	if config.Speed == 0 {
		config.Speed = 1.0
	}
	if err := tts.ValidateSpeed(config.Speed); err != nil {
		return nil, err
	}
	if config.Device == "" {
		config.Device = tts.BestAvailableDevice()
	}

	return &KokoroEngine{
		binary: config.Binary,
		voice:  config.Voice,
		speed:  config.Speed,
		device: config.Device,
		cache:  config.Cache,
	}, nil
}

// Synthesize converts text to raw PCM via the Kokoro CLI.
func (e *KokoroEngine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, tts.ErrEmptyText
	}

	e.mu.RLock()
	voice, speed, device := e.voice, e.speed, e.device
	e.mu.RUnlock()

	key := cache.Key(text, voice, speed)
	if e.cache != nil {
		if audio, ok := e.cache.Get(key); ok {
			log.Debug("synthesis cache hit", "voice", voice, "chars", len(text))
			return audio, nil
		}
	}

	timeout := baseTimeout + time.Duration(len(text))*timeoutPerChar
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"--voice", voice,
		"--lang", tts.LangOf(voice),
		"--length-scale", tts.LengthScale(speed),
		"--device", string(device),
		"--output-raw",
	}

	cmd := exec.CommandContext(ctx, e.binary, args...)
	// Pre-configured stdin: the whole text is ready before the process starts.
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("synthesis timed out after %s: %w", timeout, ctx.Err())
		}
		return nil, fmt.Errorf("kokoro failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	audio := stdout.Bytes()
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: no audio output, stderr: %s", tts.ErrSynthesisFailed, strings.TrimSpace(stderr.String()))
	}
	log.Debug("synthesized", "chars", len(text), "bytes", len(audio), "took", time.Since(start))

	if e.cache != nil {
		// Cache errors are non-fatal.
		_ = e.cache.Put(key, audio)
	}

	return audio, nil
}

// Info returns engine capabilities and configuration.
func (e *KokoroEngine) Info() tts.EngineInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return tts.EngineInfo{
		Name:       "kokoro",
		Voice:      e.voice,
		SampleRate: KokoroSampleRate,
		Channels:   KokoroChannels,
		BitDepth:   KokoroBitDepth,
		Device:     e.device,
	}
}

// Validate checks that the inference CLI is present and runnable.
func (e *KokoroEngine) Validate() error {
	path, err := exec.LookPath(e.binary)
	if err != nil {
		return fmt.Errorf("%w: %s\n\n%s", tts.ErrEngineNotFound, e.binary, kokoroInstallGuidance())
	}

	cmd := exec.Command(path, "--version")
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cannot execute %s: %w", path, err)
	}

	if _, ok := os.LookupEnv("AUDIBLEZ_SKIP_DEVICE_CHECK"); !ok {
		e.mu.RLock()
		device := e.device
		e.mu.RUnlock()
		if _, fellBack := tts.ValidateDevice(device); fellBack {
			return fmt.Errorf("%w: %s", tts.ErrDeviceUnavailable, device)
		}
	}

	return nil
}

// Close releases resources held by the engine.
func (e *KokoroEngine) Close() error {
	return nil
}

// SetVoice changes the synthesis voice.
func (e *KokoroEngine) SetVoice(voice string) error {
	if !tts.KnownVoice(voice) {
		return fmt.Errorf("%w: %q", tts.ErrUnknownVoice, voice)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voice = voice
	return nil
}

// SetSpeed changes the narration speed multiplier.
func (e *KokoroEngine) SetSpeed(speed float64) error {
	if err := tts.ValidateSpeed(speed); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = speed
	return nil
}

func kokoroInstallGuidance() string {
	return `The Kokoro inference CLI is not installed. To install:

1. Install the CLI and model weights:

   pipx install kokoro-tts
   # or: pip install kokoro-tts

2. Verify the installation:

   kokoro --version

3. GPU inference additionally needs a working CUDA driver (nvidia-smi)
   or Apple Silicon; pass --engine cpu to force CPU inference.`
}

// Ensure KokoroEngine implements the Engine interface
var _ tts.Engine = (*KokoroEngine)(nil)
