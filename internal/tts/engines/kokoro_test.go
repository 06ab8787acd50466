package engines

import (
	"context"
	"errors"
	"testing"

	"github.com/audiblez/audiblez/internal/tts"
)

func TestNewKokoroEngineDefaults(t *testing.T) {
	engine, err := NewKokoroEngine(KokoroConfig{Voice: "af_sky"})
	if err != nil {
		t.Fatalf("NewKokoroEngine() error = %v", err)
	}
	defer engine.Close()

	info := engine.Info()
	if info.Name != "kokoro" {
		t.Errorf("Name = %q, want kokoro", info.Name)
	}
	if info.Voice != "af_sky" {
		t.Errorf("Voice = %q, want af_sky", info.Voice)
	}
	if info.SampleRate != 24000 || info.Channels != 1 || info.BitDepth != 16 {
		t.Errorf("audio format = %d Hz %d ch %d bit, want 24000/1/16",
			info.SampleRate, info.Channels, info.BitDepth)
	}
	if info.Device == "" {
		t.Error("Device not defaulted")
	}
}

func TestNewKokoroEngineRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  KokoroConfig
		wantErr error
	}{
		{"unknown voice", KokoroConfig{Voice: "af_nobody"}, tts.ErrUnknownVoice},
		{"empty voice", KokoroConfig{}, tts.ErrUnknownVoice},
		{"speed too low", KokoroConfig{Voice: "af_sky", Speed: 0.1}, tts.ErrInvalidSpeed},
		{"speed too high", KokoroConfig{Voice: "af_sky", Speed: 5}, tts.ErrInvalidSpeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKokoroEngine(tt.config)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewKokoroEngine() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestKokoroSynthesizeRejectsEmptyText(t *testing.T) {
	engine, err := NewKokoroEngine(KokoroConfig{Voice: "af_sky"})
	if err != nil {
		t.Fatalf("NewKokoroEngine() error = %v", err)
	}
	defer engine.Close()

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := engine.Synthesize(context.Background(), text); !errors.Is(err, tts.ErrEmptyText) {
			t.Errorf("Synthesize(%q) error = %v, want ErrEmptyText", text, err)
		}
	}
}

func TestKokoroValidateMissingBinary(t *testing.T) {
	engine, err := NewKokoroEngine(KokoroConfig{
		Voice:  "af_sky",
		Binary: "kokoro-binary-that-does-not-exist",
	})
	if err != nil {
		t.Fatalf("NewKokoroEngine() error = %v", err)
	}
	defer engine.Close()

	if err := engine.Validate(); !errors.Is(err, tts.ErrEngineNotFound) {
		t.Errorf("Validate() error = %v, want ErrEngineNotFound", err)
	}
}

func TestKokoroSetVoice(t *testing.T) {
	engine, err := NewKokoroEngine(KokoroConfig{Voice: "af_sky"})
	if err != nil {
		t.Fatalf("NewKokoroEngine() error = %v", err)
	}
	defer engine.Close()

	if err := engine.SetVoice("bm_george"); err != nil {
		t.Fatalf("SetVoice() error = %v", err)
	}
	if got := engine.Info().Voice; got != "bm_george" {
		t.Errorf("Voice = %q after SetVoice, want bm_george", got)
	}

	if err := engine.SetVoice("xx_bogus"); !errors.Is(err, tts.ErrUnknownVoice) {
		t.Errorf("SetVoice(bogus) error = %v, want ErrUnknownVoice", err)
	}
}

func TestKokoroSetSpeed(t *testing.T) {
	engine, err := NewKokoroEngine(KokoroConfig{Voice: "af_sky"})
	if err != nil {
		t.Fatalf("NewKokoroEngine() error = %v", err)
	}
	defer engine.Close()

	if err := engine.SetSpeed(1.5); err != nil {
		t.Fatalf("SetSpeed(1.5) error = %v", err)
	}
	if err := engine.SetSpeed(9); !errors.Is(err, tts.ErrInvalidSpeed) {
		t.Errorf("SetSpeed(9) error = %v, want ErrInvalidSpeed", err)
	}
}
