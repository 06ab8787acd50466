package tts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultVoice is used when nothing is configured.
const DefaultVoice = "af_sky"

// Catalog maps Kokoro language codes to the voices shipped with the model.
// The first letter of a voice name is its language code, the second its
// gender ("f"/"m").
var Catalog = map[string][]string{
	"a": {
		"af_alloy", "af_aoede", "af_bella", "af_heart", "af_jessica",
		"af_kore", "af_nicole", "af_nova", "af_river", "af_sarah", "af_sky",
		"am_adam", "am_echo", "am_eric", "am_fenrir", "am_liam",
		"am_michael", "am_onyx", "am_puck", "am_santa",
	},
	"b": {
		"bf_alice", "bf_emma", "bf_isabella", "bf_lily",
		"bm_daniel", "bm_fable", "bm_george", "bm_lewis",
	},
	"e": {"ef_dora", "em_alex", "em_santa"},
	"f": {"ff_siwis"},
	"h": {"hf_alpha", "hf_beta", "hm_omega", "hm_psi"},
	"i": {"if_sara", "im_nicola"},
	"j": {"jf_alpha", "jf_gongitsune", "jf_nezumi", "jf_tebukuro", "jm_kumo"},
	"p": {"pf_dora", "pm_alex", "pm_santa"},
	"z": {
		"zf_xiaobei", "zf_xiaoni", "zf_xiaoxiao", "zf_xiaoyi",
		"zm_yunjian", "zm_yunxi", "zm_yunxia", "zm_yunyang",
	},
}

// Flags maps language codes to the flag shown next to a voice in the UI.
var Flags = map[string]string{
	"a": "🇺🇸",
	"b": "🇬🇧",
	"e": "🇪🇸",
	"f": "🇫🇷",
	"h": "🇮🇳",
	"i": "🇮🇹",
	"j": "🇯🇵",
	"p": "🇧🇷",
	"z": "🇨🇳",
}

// langTags maps language codes to BCP 47 tags, used for display names.
var langTags = map[string]string{
	"a": "en-US",
	"b": "en-GB",
	"e": "es-ES",
	"f": "fr-FR",
	"h": "hi-IN",
	"i": "it-IT",
	"j": "ja-JP",
	"p": "pt-BR",
	"z": "zh-CN",
}

// LangOf returns the language code of a voice, derived from its name prefix.
func LangOf(voice string) string {
	if voice == "" {
		return ""
	}
	return voice[:1]
}

// LangName returns the human-readable English name of a voice language,
// e.g. "American English" for "af_sky".
func LangName(code string) string {
	tag, ok := langTags[code]
	if !ok {
		return code
	}
	return display.English.Tags().Name(language.Make(tag))
}

// KnownVoice reports whether the voice exists in the catalog.
func KnownVoice(voice string) bool {
	for _, vv := range Catalog[LangOf(voice)] {
		if vv == voice {
			return true
		}
	}
	return false
}

// AllVoices returns every voice in the catalog, grouped by language code in
// sorted order.
func AllVoices() []string {
	codes := make([]string, 0, len(Catalog))
	for code := range Catalog {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var voices []string
	for _, code := range codes {
		voices = append(voices, Catalog[code]...)
	}
	return voices
}

// DisplayVoice renders a voice with its language flag, e.g. "🇺🇸 af_sky".
func DisplayVoice(voice string) string {
	flag, ok := Flags[LangOf(voice)]
	if !ok {
		return voice
	}
	return flag + " " + voice
}

// ParseDisplayVoice strips a flag prefix from a display label, accepting both
// plain voice names and "🇺🇸 af_sky" style labels from persisted settings.
func ParseDisplayVoice(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// ResolveVoice resolves user input to a catalog voice. Exact matches win;
// otherwise the closest fuzzy match is used so "sky" or "nicole" work.
func ResolveVoice(input string) (string, error) {
	input = ParseDisplayVoice(strings.TrimSpace(input))
	if input == "" {
		return "", ErrUnknownVoice
	}
	if KnownVoice(input) {
		return input, nil
	}

	matches := fuzzy.Find(strings.ToLower(input), AllVoices())
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownVoice, input)
	}
	return matches[0].Str, nil
}
