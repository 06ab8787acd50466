package convert

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// stats tracks conversion throughput by character count. Characters are the
// only unit known up front, so completion and ETA are estimated from them.
type stats struct {
	totalChars int
	doneChars  int
	started    time.Time
}

func newStats(totalChars int) *stats {
	return &stats{totalChars: totalChars, started: time.Now()}
}

func (s *stats) add(chars int) {
	s.doneChars += chars
}

func (s *stats) percent() float64 {
	if s.totalChars == 0 {
		return 100
	}
	return float64(s.doneChars) / float64(s.totalChars) * 100
}

// charsPerSec returns the synthesis rate so far. Zero until enough time has
// passed to measure anything meaningful.
func (s *stats) charsPerSec() float64 {
	elapsed := time.Since(s.started).Seconds()
	if elapsed < 1 {
		return 0
	}
	return float64(s.doneChars) / elapsed
}

func (s *stats) eta() time.Duration {
	rate := s.charsPerSec()
	if rate == 0 {
		return 0
	}
	remaining := s.totalChars - s.doneChars
	return time.Duration(float64(remaining)/rate) * time.Second
}

func (s *stats) elapsed() time.Duration {
	return time.Since(s.started)
}

// FormatETA renders an ETA for display, e.g. "about 5 minutes".
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "calculating"
	}
	return humanize.RelTime(time.Now(), time.Now().Add(eta), "", "")
}

// FormatRate renders a synthesis rate for display.
func FormatRate(charsPerSec float64) string {
	return fmt.Sprintf("%s chars/s", humanize.CommafWithDigits(charsPerSec, 0))
}
