package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/audiblez/audiblez/internal/ebook"
	"github.com/audiblez/audiblez/internal/settings"
	"github.com/audiblez/audiblez/internal/tts"
)

func testCommon() *commonModel {
	book := &ebook.Book{
		Title:  "Test Book",
		Author: "Jane Roe",
		Chapters: []ebook.Chapter{
			{Index: 1, Name: "intro", ShortName: "intro", Text: "Hello there.", Selected: true},
			{Index: 2, Name: "one", ShortName: "one", Text: "Chapter one.", Selected: true},
			{Index: 3, Name: "notes", ShortName: "notes", Text: "Notes.", Selected: false},
		},
	}
	return &commonModel{
		cfg:    Config{Book: book},
		width:  100,
		height: 30,
		params: settings.Settings{
			Engine: tts.DeviceCPU,
			Voice:  tts.DefaultVoice,
			Speed:  1.0,
		},
	}
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestChapterToggle(t *testing.T) {
	m := newChaptersModel(testCommon())

	m, _ = m.update(tea.KeyMsg{Type: tea.KeySpace})
	if m.book().Chapters[0].Selected {
		t.Error("space should deselect the chapter under the cursor")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeySpace})
	if !m.book().Chapters[0].Selected {
		t.Error("space should reselect the chapter under the cursor")
	}
}

func TestChapterSelectAllAndNone(t *testing.T) {
	m := newChaptersModel(testCommon())

	m, _ = m.update(keyRunes('n'))
	if got := len(m.book().Selected()); got != 0 {
		t.Errorf("after n: %d chapters selected, want 0", got)
	}

	m, _ = m.update(keyRunes('a'))
	if got := len(m.book().Selected()); got != 3 {
		t.Errorf("after a: %d chapters selected, want 3", got)
	}
}

func TestChapterCursorBounds(t *testing.T) {
	m := newChaptersModel(testCommon())

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up at top, want 0", m.cursor)
	}

	for i := 0; i < 10; i++ {
		m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d after repeated down, want 2", m.cursor)
	}
}

func TestEnterStartsConversion(t *testing.T) {
	m := newChaptersModel(testCommon())

	_, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter with a selection should emit a command")
	}
	if _, ok := cmd().(startConversionMsg); !ok {
		t.Errorf("enter emitted %T, want startConversionMsg", cmd())
	}
}

func TestEnterWithoutSelectionDoesNothing(t *testing.T) {
	m := newChaptersModel(testCommon())
	m, _ = m.update(keyRunes('n'))

	if _, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("enter without a selection should be ignored")
	}
}

func TestSpeedKeys(t *testing.T) {
	common := testCommon()
	m := newChaptersModel(common)

	m, _ = m.update(keyRunes('+'))
	if common.params.Speed != 1.25 {
		t.Errorf("Speed = %v after +, want 1.25", common.params.Speed)
	}

	m, _ = m.update(keyRunes('-'))
	if common.params.Speed != 1.0 {
		t.Errorf("Speed = %v after -, want 1.0", common.params.Speed)
	}
}

func TestChaptersViewShowsSelection(t *testing.T) {
	m := newChaptersModel(testCommon())
	v := m.view()

	for _, want := range []string{"Test Book", "intro", "notes", "2/3 chapters"} {
		if !containsStripped(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
