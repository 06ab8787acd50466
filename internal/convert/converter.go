package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/audiblez/audiblez/internal/audio"
	"github.com/audiblez/audiblez/internal/ebook"
	"github.com/audiblez/audiblez/internal/m4b"
	"github.com/audiblez/audiblez/internal/tts"
)

// ErrNoChaptersSelected is returned when a book has nothing to convert.
var ErrNoChaptersSelected = errors.New("no chapters selected")

// Assembler muxes chapter WAVs into the final audiobook. It is the part of
// package m4b the converter needs.
type Assembler interface {
	Validate() error
	Assemble(ctx context.Context, in m4b.Input) error
}

// Options configures a Converter.
type Options struct {
	Engine  tts.Engine
	Builder Assembler

	// OutputDir receives the audiobook and the intermediate WAV files.
	OutputDir string

	// KeepWAVs leaves the per-chapter WAV files on disk after assembly.
	KeepWAVs bool

	// Events receives progress notifications. May be nil.
	Events func(Event)
}

// Converter runs book conversions. A single Converter handles one conversion
// at a time.
type Converter struct {
	engine  tts.Engine
	builder Assembler
	outDir  string
	keep    bool
	events  func(Event)
}

// New validates the toolchain and returns a ready Converter.
func New(opts Options) (*Converter, error) {
	if opts.Engine == nil {
		return nil, errors.New("no synthesis engine")
	}
	if opts.Builder == nil {
		opts.Builder = m4b.NewBuilder()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	if err := opts.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Builder.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	return &Converter{
		engine:  opts.Engine,
		builder: opts.Builder,
		outDir:  opts.OutputDir,
		keep:    opts.KeepWAVs,
		events:  opts.Events,
	}, nil
}

// Convert synthesizes the selected chapters of book and assembles the M4B.
// It returns the audiobook path. Chapters already on disk from an earlier
// interrupted run are reused instead of re-synthesized.
func (c *Converter) Convert(ctx context.Context, book *ebook.Book) (string, error) {
	chapters := book.Selected()
	if len(chapters) == 0 {
		return "", ErrNoChaptersSelected
	}

	info := c.engine.Info()
	format := audio.Format{
		SampleRate: info.SampleRate,
		Channels:   info.Channels,
		BitDepth:   info.BitDepth,
	}
	stem := sanitizeFilename(book.Title)
	st := newStats(book.TotalChars())

	c.emit(Started{Chapters: len(chapters), TotalChars: st.totalChars})
	log.Info("converting book",
		"title", book.Title,
		"chapters", len(chapters),
		"voice", info.Voice,
		"device", info.Device)

	wavFiles := make([]string, 0, len(chapters))
	durations := make([]time.Duration, 0, len(chapters))
	titles := make([]string, 0, len(chapters))

	for i, ch := range chapters {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		wavPath := filepath.Join(c.outDir, chapterFilename(stem, ch.Index, info.Voice))
		c.emit(ChapterStarted{Index: i + 1, Name: ch.ShortName, Chars: len(ch.Text)})

		duration, resumed, err := c.chapterWAV(ctx, wavPath, ch, format)
		if err != nil {
			return "", fmt.Errorf("chapter %d (%s): %w", ch.Index, ch.ShortName, err)
		}

		st.add(len(ch.Text))
		c.emit(ChapterFinished{Index: i + 1, Name: ch.ShortName, Duration: duration, Resumed: resumed})
		c.emit(Progress{
			Percent:      st.percent(),
			CharsPerSec:  st.charsPerSec(),
			ETA:          st.eta(),
			ChapterIndex: i + 1,
		})

		wavFiles = append(wavFiles, wavPath)
		durations = append(durations, duration)
		titles = append(titles, ch.ShortName)
	}

	c.emit(Assembling{})
	outputPath := filepath.Join(c.outDir, stem+".m4b")
	err := c.builder.Assemble(ctx, m4b.Input{
		WAVFiles:      wavFiles,
		Durations:     durations,
		ChapterTitles: titles,
		Meta:          m4b.Metadata{Title: book.Title, Artist: book.Author},
		Cover:         book.Cover,
		CoverType:     book.CoverType,
		OutputPath:    outputPath,
	})
	if err != nil {
		return "", err
	}

	if !c.keep {
		for _, f := range wavFiles {
			os.Remove(f)
		}
	}

	c.emit(Finished{OutputPath: outputPath, Elapsed: st.elapsed()})
	log.Info("audiobook ready", "output", outputPath, "took", st.elapsed())
	return outputPath, nil
}

// chapterWAV produces the WAV for one chapter, reusing an existing file from
// an interrupted run when its header checks out.
func (c *Converter) chapterWAV(ctx context.Context, path string, ch ebook.Chapter, format audio.Format) (time.Duration, bool, error) {
	if existing, duration, err := audio.ReadWAVInfo(path); err == nil && existing == format {
		log.Debug("reusing chapter audio", "file", filepath.Base(path))
		return duration, true, nil
	}

	var pcm []byte
	if strings.TrimSpace(ch.Text) == "" {
		// Empty chapters get a beat of silence to keep chapter marks aligned.
		pcm = format.Silence(time.Second)
	} else {
		var err error
		pcm, err = c.engine.Synthesize(ctx, ch.Text)
		if err != nil {
			return 0, false, err
		}
	}

	if err := audio.WriteWAVFile(path, format, pcm); err != nil {
		return 0, false, err
	}
	return format.Duration(len(pcm)), false, nil
}

func (c *Converter) emit(e Event) {
	if c.events != nil {
		c.events(e)
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w\-]+`)

// sanitizeFilename reduces a book title to a safe file stem.
func sanitizeFilename(title string) string {
	stem := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(title), "_")
	stem = strings.Trim(stem, "_")
	if stem == "" {
		stem = "audiobook"
	}
	return stem
}

// chapterFilename names the intermediate WAV for a chapter. The voice is
// part of the name so a voice change never resumes from mismatched audio.
func chapterFilename(stem string, index int, voice string) string {
	return fmt.Sprintf("%s_chapter_%03d_%s.wav", stem, index, voice)
}
