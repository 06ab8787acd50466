package m4b

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Metadata is the book-level information written into the M4B container.
type Metadata struct {
	Title  string
	Artist string
}

// ChapterMark is one chapter entry on the output timeline.
type ChapterMark struct {
	Title string
	Start time.Duration
	End   time.Duration
}

// ChapterMarks lays chapters of the given durations end to end from zero.
func ChapterMarks(titles []string, durations []time.Duration) []ChapterMark {
	marks := make([]ChapterMark, 0, len(titles))
	var cursor time.Duration
	for i, title := range titles {
		end := cursor + durations[i]
		marks = append(marks, ChapterMark{Title: title, Start: cursor, End: end})
		cursor = end
	}
	return marks
}

// WriteFFMetadata writes metadata and chapter marks in ffmpeg's FFMETADATA1
// format with a millisecond timebase.
func WriteFFMetadata(w io.Writer, meta Metadata, chapters []ChapterMark) error {
	var sb strings.Builder
	sb.WriteString(";FFMETADATA1\n")
	if meta.Title != "" {
		fmt.Fprintf(&sb, "title=%s\n", escapeMeta(meta.Title))
	}
	if meta.Artist != "" {
		fmt.Fprintf(&sb, "artist=%s\n", escapeMeta(meta.Artist))
	}

	for _, ch := range chapters {
		sb.WriteString("\n[CHAPTER]\nTIMEBASE=1/1000\n")
		fmt.Fprintf(&sb, "START=%d\n", ch.Start.Milliseconds())
		fmt.Fprintf(&sb, "END=%d\n", ch.End.Milliseconds())
		fmt.Fprintf(&sb, "title=%s\n", escapeMeta(ch.Title))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// escapeMeta escapes the characters the FFMETADATA format treats specially.
func escapeMeta(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"=", `\=`,
		";", `\;`,
		"#", `\#`,
		"\n", `\`+"\n",
	)
	return r.Replace(s)
}
