package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/audiblez/audiblez/internal/tts"
)

type voicePickedMsg struct{ voice string }

// voicesModel is the voice picker: a filter input over the Kokoro catalog.
type voicesModel struct {
	common *commonModel

	input   textinput.Model
	matches []string
	cursor  int
}

func newVoicesModel(common *commonModel) voicesModel {
	input := textinput.New()
	input.Placeholder = "filter voices"
	input.Prompt = "/ "
	input.CharLimit = 30

	return voicesModel{
		common:  common,
		input:   input,
		matches: tts.AllVoices(),
	}
}

// focus prepares the picker for display, resetting the filter.
func (m *voicesModel) focus() tea.Cmd {
	m.input.SetValue("")
	m.matches = tts.AllVoices()
	m.cursor = 0
	for i, v := range m.matches {
		if v == m.common.params.Voice {
			m.cursor = i
			break
		}
	}
	return m.input.Focus()
}

func (m voicesModel) update(msg tea.Msg) (voicesModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil

		case "enter":
			if len(m.matches) == 0 {
				return m, nil
			}
			voice := m.matches[m.cursor]
			return m, func() tea.Msg { return voicePickedMsg{voice: voice} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filter()
	return m, cmd
}

// filter narrows the catalog to fuzzy matches of the input.
func (m *voicesModel) filter() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.matches = tts.AllVoices()
	} else {
		results := fuzzy.Find(strings.ToLower(query), tts.AllVoices())
		matches := make([]string, 0, len(results))
		for _, r := range results {
			matches = append(matches, r.Str)
		}
		m.matches = matches
	}
	if m.cursor >= len(m.matches) {
		m.cursor = 0
	}
}

func (m voicesModel) view() string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("Pick a voice") + "\n\n")
	b.WriteString("  " + m.input.View() + "\n\n")

	rows := m.common.height - 8
	if rows < 3 {
		rows = 3
	}
	offset := 0
	if m.cursor >= rows {
		offset = m.cursor - rows + 1
	}
	end := offset + rows
	if end > len(m.matches) {
		end = len(m.matches)
	}

	for i := offset; i < end; i++ {
		voice := m.matches[i]

		cursor := "  "
		// Flag emojis are double-width; runewidth keeps the columns straight.
		label := runewidth.FillRight(tts.DisplayVoice(voice), 18) +
			subtleStyle.Render(tts.LangName(tts.LangOf(voice)))
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		if voice == m.common.params.Voice {
			label += " " + selectedStyle.Render("(current)")
		}
		b.WriteString("  " + cursor + label + "\n")
	}

	if len(m.matches) == 0 {
		b.WriteString("  " + subtleStyle.Render("no matches") + "\n")
	}

	b.WriteString("\n  " + helpStyle.Render("enter: select • esc: back") + "\n")
	return b.String()
}
