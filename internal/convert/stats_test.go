package convert

import (
	"testing"
	"time"
)

func TestStatsPercent(t *testing.T) {
	s := newStats(1000)

	if got := s.percent(); got != 0 {
		t.Errorf("percent() = %v before any work", got)
	}

	s.add(250)
	if got := s.percent(); got != 25 {
		t.Errorf("percent() = %v, want 25", got)
	}

	s.add(750)
	if got := s.percent(); got != 100 {
		t.Errorf("percent() = %v, want 100", got)
	}
}

func TestStatsPercentEmptyBook(t *testing.T) {
	s := newStats(0)
	if got := s.percent(); got != 100 {
		t.Errorf("percent() = %v for empty total, want 100", got)
	}
}

func TestStatsRateAndETA(t *testing.T) {
	s := newStats(1000)
	s.started = time.Now().Add(-10 * time.Second)
	s.add(500)

	rate := s.charsPerSec()
	if rate < 45 || rate > 55 {
		t.Errorf("charsPerSec() = %v, want ~50", rate)
	}

	eta := s.eta()
	if eta < 8*time.Second || eta > 12*time.Second {
		t.Errorf("eta() = %v, want ~10s", eta)
	}
}

func TestStatsRateBeforeMeasurable(t *testing.T) {
	s := newStats(1000)
	s.add(500)

	if got := s.charsPerSec(); got != 0 {
		t.Errorf("charsPerSec() = %v within the first second, want 0", got)
	}
	if got := s.eta(); got != 0 {
		t.Errorf("eta() = %v without a rate, want 0", got)
	}
}

func TestFormatETA(t *testing.T) {
	if got := FormatETA(0); got != "calculating" {
		t.Errorf("FormatETA(0) = %q", got)
	}
	if got := FormatETA(5 * time.Minute); got == "" || got == "calculating" {
		t.Errorf("FormatETA(5m) = %q", got)
	}
}
