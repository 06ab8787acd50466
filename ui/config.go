package ui

import (
	"github.com/audiblez/audiblez/internal/cache"
	"github.com/audiblez/audiblez/internal/ebook"
	"github.com/audiblez/audiblez/internal/settings"
)

// Config contains TUI-specific configuration. The exported env tags allow
// tweaking behavior without flags, e.g. AUDIBLEZ_ENABLE_MOUSE=true.
type Config struct {
	Book     *ebook.Book       `env:"-"`
	Settings settings.Settings `env:"-"`
	Cache    *cache.Cache      `env:"-"`
	KeepWAVs bool              `env:"-"`

	EnableMouse  bool   `env:"ENABLE_MOUSE"`
	EngineBinary string `env:"KOKORO_BIN"`
}
