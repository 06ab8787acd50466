package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/audiblez/audiblez/internal/audio"
	"github.com/audiblez/audiblez/internal/ebook"
	"github.com/audiblez/audiblez/internal/tts"
	"github.com/audiblez/audiblez/internal/tts/engines"
)

// Preview playback synthesizes at most this much of a chapter.
const previewTimeout = 2 * time.Minute

type (
	openVoicePickerMsg struct{}
	startConversionMsg struct{}

	previewReadyMsg struct {
		format audio.Format
		pcm    []byte
		err    error
	}
)

// chaptersModel is the main screen: the chapter list plus the narration
// parameter bar.
type chaptersModel struct {
	common *commonModel

	cursor int
	offset int

	player     *audio.Player
	previewing bool
}

func newChaptersModel(common *commonModel) chaptersModel {
	return chaptersModel{common: common}
}

func (m *chaptersModel) setSize(width, height int) {
	m.clampScroll()
}

func (m chaptersModel) book() *ebook.Book { return m.common.cfg.Book }

// visibleRows is how many chapter lines fit between the header and the
// footer.
func (m chaptersModel) visibleRows() int {
	rows := m.common.height - 7
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m *chaptersModel) clampScroll() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m chaptersModel) update(msg tea.Msg) (chaptersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		book := m.book()
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			m.clampScroll()

		case "down", "j":
			if m.cursor < len(book.Chapters)-1 {
				m.cursor++
			}
			m.clampScroll()

		case " ", "x":
			book.Chapters[m.cursor].Selected = !book.Chapters[m.cursor].Selected

		case "a":
			for i := range book.Chapters {
				book.Chapters[i].Selected = true
			}

		case "n":
			for i := range book.Chapters {
				book.Chapters[i].Selected = false
			}

		case "v":
			return m, func() tea.Msg { return openVoicePickerMsg{} }

		case "+", "=":
			m.common.params.Speed = tts.NextSpeed(m.common.params.Speed)

		case "-", "_":
			m.common.params.Speed = tts.PrevSpeed(m.common.params.Speed)

		case "e":
			m.common.params.Engine = nextDevice(m.common.params.Engine)

		case "p":
			if m.previewing {
				m.stopPreview()
				return m, nil
			}
			m.previewing = true
			return m, previewCmd(m.common, book.Chapters[m.cursor])

		case "enter":
			if len(book.Selected()) == 0 {
				return m, nil
			}
			m.stopPreview()
			return m, func() tea.Msg { return startConversionMsg{} }
		}

	case previewReadyMsg:
		m.previewing = false
		if msg.err != nil {
			log.Warn("preview failed", "err", msg.err)
			text := "preview failed: " + msg.err.Error()
			return m, func() tea.Msg { return flashMsg{text: text} }
		}
		return m, m.play(msg.format, msg.pcm)
	}

	return m, nil
}

// play starts preview playback, replacing any running preview.
func (m *chaptersModel) play(format audio.Format, pcm []byte) tea.Cmd {
	m.stopPreview()

	player, err := audio.NewPlayer(format)
	if err != nil {
		log.Warn("audio device unavailable", "err", err)
		return nil
	}
	if err := player.Play(pcm); err != nil {
		player.Close()
		return nil
	}
	m.player = player
	m.previewing = true
	return nil
}

func (m *chaptersModel) stopPreview() {
	if m.player != nil {
		m.player.Close()
		m.player = nil
	}
	m.previewing = false
}

// previewCmd synthesizes the first few sentences of a chapter with the
// current narration parameters.
func previewCmd(common *commonModel, ch ebook.Chapter) tea.Cmd {
	return func() tea.Msg {
		engine, err := engines.NewKokoroEngine(engines.KokoroConfig{
			Binary: common.cfg.EngineBinary,
			Voice:  common.params.Voice,
			Speed:  common.params.Speed,
			Device: common.params.Engine,
			Cache:  common.cfg.Cache,
		})
		if err != nil {
			return previewReadyMsg{err: err}
		}
		defer engine.Close() //nolint:errcheck

		if err := engine.Validate(); err != nil {
			return previewReadyMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
		defer cancel()

		pcm, err := engine.Synthesize(ctx, ch.Preview())
		if err != nil {
			return previewReadyMsg{err: err}
		}

		info := engine.Info()
		return previewReadyMsg{
			format: audio.Format{
				SampleRate: info.SampleRate,
				Channels:   info.Channels,
				BitDepth:   info.BitDepth,
			},
			pcm: pcm,
		}
	}
}

// nextDevice cycles through the devices available on this machine.
func nextDevice(current tts.Device) tts.Device {
	order := []tts.Device{tts.DeviceCPU, tts.DeviceCUDA, tts.DeviceApple}
	available := tts.AvailableDevices()

	start := 0
	for i, d := range order {
		if d == current {
			start = i
			break
		}
	}
	for i := 1; i <= len(order); i++ {
		d := order[(start+i)%len(order)]
		if available[d] {
			return d
		}
	}
	return current
}

func (m chaptersModel) view() string {
	book := m.book()
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render(book.Title))
	if book.Author != "" {
		b.WriteString(" " + authorStyle.Render("by "+book.Author))
	}
	b.WriteString("\n\n")

	rows := m.visibleRows()
	end := m.offset + rows
	if end > len(book.Chapters) {
		end = len(book.Chapters)
	}

	for i := m.offset; i < end; i++ {
		ch := book.Chapters[i]

		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		check := "[ ]"
		name := ch.ShortName
		if ch.Selected {
			check = selectedStyle.Render("[x]")
			name = selectedStyle.Render(name)
		}

		line := fmt.Sprintf("%s%s %3d. %s %s",
			cursor, check, ch.Index, name,
			subtleStyle.Render(fmt.Sprintf("(%s chars)", humanize.Comma(int64(len(ch.Text))))))
		b.WriteString(truncateLine(line, m.common.width) + "\n")
	}

	b.WriteString("\n  " + m.paramsBar() + "\n")
	b.WriteString("  " + helpStyle.Render(
		"space: toggle • a/n: all/none • v: voice • +/-: speed • e: device • p: preview • enter: convert • q: quit",
	) + "\n")
	return b.String()
}

// paramsBar summarizes the narration parameters and the selection.
func (m chaptersModel) paramsBar() string {
	p := m.common.params
	selected := len(m.book().Selected())

	preview := ""
	if m.previewing {
		preview = " • previewing"
	}
	return statusStyle.Render(fmt.Sprintf("%s • %s • %s • %d/%d chapters%s",
		tts.DisplayVoice(p.Voice),
		tts.Display(p.Speed),
		p.Engine,
		selected, len(m.book().Chapters),
		preview))
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}
