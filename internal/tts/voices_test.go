package tts

import (
	"errors"
	"strings"
	"testing"
)

func TestCatalogVoicePrefixes(t *testing.T) {
	for code, voices := range Catalog {
		for _, voice := range voices {
			if !strings.HasPrefix(voice, code) {
				t.Errorf("voice %q not prefixed with its language code %q", voice, code)
			}
			gender := voice[1]
			if gender != 'f' && gender != 'm' {
				t.Errorf("voice %q has unknown gender marker %q", voice, gender)
			}
		}
	}
}

func TestDefaultVoiceKnown(t *testing.T) {
	if !KnownVoice(DefaultVoice) {
		t.Errorf("default voice %q missing from catalog", DefaultVoice)
	}
}

func TestLangOf(t *testing.T) {
	tests := []struct {
		voice string
		want  string
	}{
		{"af_sky", "a"},
		{"bm_george", "b"},
		{"zf_xiaobei", "z"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := LangOf(tt.voice); got != tt.want {
			t.Errorf("LangOf(%q) = %q, want %q", tt.voice, got, tt.want)
		}
	}
}

func TestLangName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"a", "American English"},
		{"b", "British English"},
		{"?", "?"},
	}

	for _, tt := range tests {
		if got := LangName(tt.code); got != tt.want {
			t.Errorf("LangName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}

	for code := range Catalog {
		if LangName(code) == "" {
			t.Errorf("LangName(%q) is empty", code)
		}
	}
}

func TestKnownVoice(t *testing.T) {
	tests := []struct {
		voice string
		want  bool
	}{
		{"af_sky", true},
		{"am_adam", true},
		{"jf_alpha", true},
		{"af_nobody", false},
		{"", false},
		{"sky", false},
	}

	for _, tt := range tests {
		if got := KnownVoice(tt.voice); got != tt.want {
			t.Errorf("KnownVoice(%q) = %v, want %v", tt.voice, got, tt.want)
		}
	}
}

func TestAllVoicesSortedAndComplete(t *testing.T) {
	voices := AllVoices()

	total := 0
	for _, vv := range Catalog {
		total += len(vv)
	}
	if len(voices) != total {
		t.Fatalf("AllVoices() returned %d voices, catalog has %d", len(voices), total)
	}

	for i := 1; i < len(voices); i++ {
		if LangOf(voices[i]) < LangOf(voices[i-1]) {
			t.Fatalf("voices not grouped by language: %q after %q", voices[i], voices[i-1])
		}
	}
}

func TestDisplayVoiceRoundTrip(t *testing.T) {
	for _, voice := range AllVoices() {
		label := DisplayVoice(voice)
		if !strings.HasSuffix(label, voice) {
			t.Errorf("DisplayVoice(%q) = %q, does not end with voice name", voice, label)
		}
		if got := ParseDisplayVoice(label); got != voice {
			t.Errorf("ParseDisplayVoice(%q) = %q, want %q", label, got, voice)
		}
	}
}

func TestResolveVoice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"exact match", "af_sky", "af_sky", false},
		{"display label", "🇺🇸 af_sky", "af_sky", false},
		{"fuzzy suffix", "sky", "af_sky", false},
		{"fuzzy name", "nicole", "af_nicole", false},
		{"whitespace", "  af_bella  ", "af_bella", false},
		{"empty", "", "", true},
		{"gibberish", "qqqq", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveVoice(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveVoice(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownVoice) {
				t.Errorf("ResolveVoice(%q) error = %v, want ErrUnknownVoice", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ResolveVoice(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
