package m4b

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ErrFFmpegNotFound is returned when no ffmpeg binary is on the PATH.
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

// DefaultBitRate is the AAC bitrate for spoken audio.
const DefaultBitRate = "64k"

// Builder muxes chapter WAVs into an M4B via an external ffmpeg.
type Builder struct {
	binary  string
	bitRate string
}

// Option configures a Builder.
type Option func(*Builder)

// WithBinary overrides the ffmpeg binary name.
func WithBinary(binary string) Option {
	return func(b *Builder) { b.binary = binary }
}

// WithBitRate overrides the AAC bitrate, e.g. "96k".
func WithBitRate(rate string) Option {
	return func(b *Builder) { b.bitRate = rate }
}

// NewBuilder creates a Builder with defaults suitable for audiobooks.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{binary: "ffmpeg", bitRate: DefaultBitRate}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Input describes one M4B assembly job.
type Input struct {
	// WAVFiles are the chapter files, already in playback order.
	WAVFiles []string

	// Durations holds the play time of each WAV, parallel to WAVFiles.
	Durations []time.Duration

	// ChapterTitles are the display titles, parallel to WAVFiles.
	ChapterTitles []string

	Meta Metadata

	// Cover is an optional cover image muxed as attached picture.
	Cover     []byte
	CoverType string

	// OutputPath is the destination .m4b file.
	OutputPath string
}

func (in Input) validate() error {
	if len(in.WAVFiles) == 0 {
		return errors.New("no chapter files to assemble")
	}
	if len(in.Durations) != len(in.WAVFiles) || len(in.ChapterTitles) != len(in.WAVFiles) {
		return errors.New("chapter files, durations and titles must align")
	}
	if in.OutputPath == "" {
		return errors.New("no output path")
	}
	return nil
}

// Validate checks that ffmpeg is present and runnable.
func (b *Builder) Validate() error {
	path, err := exec.LookPath(b.binary)
	if err != nil {
		return fmt.Errorf("%w: %s\n\n%s", ErrFFmpegNotFound, b.binary, ffmpegInstallGuidance())
	}

	cmd := exec.Command(path, "-version")
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cannot execute %s: %w", path, err)
	}
	return nil
}

// Assemble runs ffmpeg to produce the M4B. Scratch files live next to the
// output so a failed run leaves nothing behind in unexpected places.
func (b *Builder) Assemble(ctx context.Context, in Input) error {
	if err := in.validate(); err != nil {
		return err
	}

	workDir, err := os.MkdirTemp(filepath.Dir(in.OutputPath), "m4b-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	listPath := filepath.Join(workDir, "chapters.txt")
	if err := writeConcatList(listPath, in.WAVFiles); err != nil {
		return err
	}

	metaPath := filepath.Join(workDir, "ffmetadata.txt")
	marks := ChapterMarks(in.ChapterTitles, in.Durations)
	if err := writeMetadataFile(metaPath, in.Meta, marks); err != nil {
		return err
	}

	coverPath := ""
	if len(in.Cover) > 0 {
		coverPath = filepath.Join(workDir, "cover"+coverExt(in.CoverType))
		if err := os.WriteFile(coverPath, in.Cover, 0o644); err != nil {
			return fmt.Errorf("write cover: %w", err)
		}
	}

	args := b.buildArgs(listPath, metaPath, coverPath, in.OutputPath)
	log.Debug("running ffmpeg", "args", strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.binary, args...)
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, tail(stderr.String(), 20))
	}
	log.Debug("assembled m4b", "output", in.OutputPath, "took", time.Since(start))
	return nil
}

// buildArgs constructs the ffmpeg invocation. Input 0 is the concatenated
// audio, input 1 the metadata stream, input 2 the optional cover.
func (b *Builder) buildArgs(listPath, metaPath, coverPath, outputPath string) []string {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-i", metaPath,
	}
	if coverPath != "" {
		args = append(args, "-i", coverPath)
	}
	args = append(args,
		"-map_metadata", "1",
		"-map", "0:a",
	)
	if coverPath != "" {
		args = append(args,
			"-map", "2:v",
			"-c:v", "copy",
			"-disposition:v:0", "attached_pic",
		)
	}
	args = append(args,
		"-c:a", "aac",
		"-b:a", b.bitRate,
		"-f", "mp4",
		outputPath,
	)
	return args
}

// writeConcatList writes the concat demuxer file list. Single quotes in
// paths use the demuxer's quote-escape form.
func writeConcatList(path string, files []string) error {
	var sb strings.Builder
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		escaped := strings.ReplaceAll(abs, `'`, `'\''`)
		fmt.Fprintf(&sb, "file '%s'\n", escaped)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func writeMetadataFile(path string, meta Metadata, marks []ChapterMark) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	err = WriteFFMetadata(file, meta, marks)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return err
}

func coverExt(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// tail returns the last n lines of s, for compact error reporting.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func ffmpegInstallGuidance() string {
	return `ffmpeg is required to assemble the audiobook. To install:

  macOS:         brew install ffmpeg
  Debian/Ubuntu: sudo apt install ffmpeg
  Fedora:        sudo dnf install ffmpeg
  Windows:       winget install ffmpeg

Then verify with: ffmpeg -version`
}
