package main

import (
	"strings"
	"testing"
	"time"

	"github.com/audiblez/audiblez/internal/convert"
)

func TestParseRanges(t *testing.T) {
	tests := []struct {
		input   string
		max     int
		want    []int
		wantErr bool
	}{
		{"1", 5, []int{1}, false},
		{"1-3", 5, []int{1, 2, 3}, false},
		{"1-3,5", 5, []int{1, 2, 3, 5}, false},
		{" 2 , 4 - 5 ", 5, []int{2, 4, 5}, false},
		{"3-1", 5, nil, true},
		{"0-2", 5, nil, true},
		{"4-9", 5, nil, true},
		{"abc", 5, nil, true},
		{",,", 5, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseRanges(tt.input, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRanges(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseRanges(%q) picked %d chapters, want %d", tt.input, len(got), len(tt.want))
			}
			for _, idx := range tt.want {
				if !got[idx] {
					t.Errorf("parseRanges(%q) missing chapter %d", tt.input, idx)
				}
			}
		})
	}
}

func TestPrinterNarratesTheRun(t *testing.T) {
	var out strings.Builder
	p := newPrinter(&out)

	p.handle(convert.Started{Chapters: 2, TotalChars: 1500})
	p.handle(convert.ChapterStarted{Index: 1, Name: "intro", Chars: 500})
	p.handle(convert.ChapterFinished{Index: 1, Name: "intro", Duration: 42 * time.Second})
	p.handle(convert.ChapterStarted{Index: 2, Name: "chapter_1", Chars: 1000})
	p.handle(convert.ChapterFinished{Index: 2, Name: "chapter_1", Duration: time.Minute, Resumed: true})
	p.handle(convert.Assembling{})
	p.handle(convert.Finished{OutputPath: "/tmp/Book.m4b", Elapsed: 2 * time.Minute})

	got := out.String()
	for _, want := range []string{
		"Converting 2 chapters",
		"[1/2]", "intro",
		"[2/2]", "chapter_1", "(resumed)",
		"Assembling audiobook",
		"/tmp/Book.m4b",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("printer output missing %q\noutput:\n%s", want, got)
		}
	}
}
