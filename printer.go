package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/audiblez/audiblez/internal/convert"
)

// Durations shown to the user are rounded to whole seconds.
const humanizeRound = time.Second

// printer renders conversion events as plain terminal output for non-TUI runs.
type printer struct {
	out      io.Writer
	chapters int
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

func (p *printer) handle(e convert.Event) {
	switch e := e.(type) {
	case convert.Started:
		p.chapters = e.Chapters
		fmt.Fprintf(p.out, "Converting %d chapters, %s characters\n",
			e.Chapters, humanize.Comma(int64(e.TotalChars)))

	case convert.ChapterStarted:
		fmt.Fprintf(p.out, "[%d/%d] %s %s\n",
			e.Index, p.chapters, keyword(e.Name),
			subtle(fmt.Sprintf("(%s chars)", humanize.Comma(int64(e.Chars)))))

	case convert.ChapterFinished:
		note := ""
		if e.Resumed {
			note = " " + subtle("(resumed)")
		}
		fmt.Fprintf(p.out, "        %s of audio%s\n", e.Duration.Round(humanizeRound), note)

	case convert.Progress:
		fmt.Fprintf(p.out, "        %s\n",
			subtle(fmt.Sprintf("%.0f%% done, %s, ETA %s",
				e.Percent, convert.FormatRate(e.CharsPerSec), convert.FormatETA(e.ETA))))

	case convert.Assembling:
		fmt.Fprintln(p.out, "Assembling audiobook...")

	case convert.Finished:
		fmt.Fprintf(p.out, "Done in %s: %s\n",
			e.Elapsed.Round(humanizeRound), keyword(e.OutputPath))
	}
}
