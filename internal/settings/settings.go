// Package settings persists user preferences between runs: voice, speed,
// compute device, output folder and window geometry. Preferences live in
// ~/.audiblez/settings.yaml and unknown or invalid values fall back to
// defaults rather than failing startup.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/audiblez/audiblez/internal/tts"
)

// Default window geometry.
const (
	DefaultWindowWidth  = 1200
	DefaultWindowHeight = 800
)

// Settings are the persisted user preferences.
type Settings struct {
	// Engine is the compute device used for inference. The historical key
	// name is kept for settings files written by older versions.
	Engine tts.Device `mapstructure:"engine"`

	Voice string  `mapstructure:"voice"`
	Speed float64 `mapstructure:"speed"`

	// OutputFolder is where audiobooks are written.
	OutputFolder string `mapstructure:"output_folder"`

	Window Window `mapstructure:"window"`
}

// Window is the remembered TUI window geometry.
type Window struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Dir returns the settings directory, ~/.audiblez.
func Dir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".audiblez"), nil
}

// Path returns the settings file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.yaml"), nil
}

// Defaults returns settings for a fresh install: the default voice at normal
// speed on the best available device, writing next to the current directory.
func Defaults() Settings {
	return Settings{
		Engine:       tts.BestAvailableDevice(),
		Voice:        tts.DefaultVoice,
		Speed:        1.0,
		OutputFolder: ".",
		Window:       Window{Width: DefaultWindowWidth, Height: DefaultWindowHeight},
	}
}

// Load reads settings from path, merging over defaults. A missing file is
// not an error; a corrupt one is logged and replaced by defaults.
func Load(path string) Settings {
	defaults := Defaults()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("engine", string(defaults.Engine))
	v.SetDefault("voice", defaults.Voice)
	v.SetDefault("speed", defaults.Speed)
	v.SetDefault("output_folder", defaults.OutputFolder)
	v.SetDefault("window.width", defaults.Window.Width)
	v.SetDefault("window.height", defaults.Window.Height)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				log.Warn("settings file unreadable, using defaults", "path", path, "err", err)
			}
		}
		return defaults
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		log.Warn("settings file malformed, using defaults", "path", path, "err", err)
		return defaults
	}

	return validate(s, defaults)
}

// LoadDefault reads settings from the default path.
func LoadDefault() Settings {
	path, err := Path()
	if err != nil {
		log.Warn("cannot locate settings", "err", err)
		return Defaults()
	}
	return Load(path)
}

// validate repairs individual fields without discarding the rest.
func validate(s, defaults Settings) Settings {
	if device, fellBack := tts.ValidateDevice(s.Engine); fellBack {
		log.Warn("configured device unavailable", "device", s.Engine, "using", device)
		s.Engine = device
	}
	if resolved, err := tts.ResolveVoice(s.Voice); err != nil {
		log.Warn("configured voice unknown", "voice", s.Voice, "using", defaults.Voice)
		s.Voice = defaults.Voice
	} else {
		s.Voice = resolved
	}
	if err := tts.ValidateSpeed(s.Speed); err != nil {
		s.Speed = defaults.Speed
	}
	if s.OutputFolder == "" {
		s.OutputFolder = defaults.OutputFolder
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		s.Window = defaults.Window
	}
	return s
}

// Save writes settings to path, creating the directory if needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("engine", string(s.Engine))
	v.Set("voice", s.Voice)
	v.Set("speed", s.Speed)
	v.Set("output_folder", s.OutputFolder)
	v.Set("window.width", s.Window.Width)
	v.Set("window.height", s.Window.Height)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// SaveDefault writes settings to the default path.
func SaveDefault(s Settings) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return Save(path, s)
}
