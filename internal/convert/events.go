package convert

import "time"

// Event is a progress notification from a running conversion.
type Event interface {
	isEvent()
}

// Started fires once when the conversion begins.
type Started struct {
	Chapters   int
	TotalChars int
}

// ChapterStarted fires before a chapter is synthesized.
type ChapterStarted struct {
	Index int // 1-based position within the selected chapters
	Name  string
	Chars int
}

// ChapterFinished fires when a chapter WAV is on disk.
type ChapterFinished struct {
	Index    int
	Name     string
	Duration time.Duration
	Resumed  bool // true when an existing WAV was reused
}

// Progress fires during synthesis with overall completion estimates.
type Progress struct {
	Percent      float64
	CharsPerSec  float64
	ETA          time.Duration
	ChapterIndex int
}

// Assembling fires when synthesis is done and ffmpeg starts muxing.
type Assembling struct{}

// Finished fires once with the final audiobook path.
type Finished struct {
	OutputPath string
	Elapsed    time.Duration
}

func (Started) isEvent()         {}
func (ChapterStarted) isEvent()  {}
func (ChapterFinished) isEvent() {}
func (Progress) isEvent()        {}
func (Assembling) isEvent()      {}
func (Finished) isEvent()        {}
