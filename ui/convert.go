package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/audiblez/audiblez/internal/convert"
	"github.com/audiblez/audiblez/internal/ebook"
	"github.com/audiblez/audiblez/internal/tts/engines"
)

type (
	convertEventMsg struct{ event convert.Event }

	convertDoneMsg struct {
		path string
		err  error
	}
)

// convertModel runs a conversion in the background and renders its progress.
type convertModel struct {
	common *commonModel

	progress progress.Model
	spinner  spinner.Model

	cancelFn context.CancelFunc
	events   chan convert.Event
	done     chan convertDoneMsg

	chapters    int
	current     int
	currentName string
	percent     float64
	rate        float64
	eta         time.Duration
	assembling  bool
	outputPath  string
}

func newConvertModel(common *commonModel) convertModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#EE6FF8"))

	return convertModel{
		common:   common,
		progress: progress.New(progress.WithDefaultGradient()),
		spinner:  s,
	}
}

func (m *convertModel) setSize(width, height int) {
	w := width - 8
	if w < 10 {
		w = 10
	}
	if w > 80 {
		w = 80
	}
	m.progress.Width = w
}

// start kicks off the conversion. Events flow back as messages through
// waitForEvent.
func (m *convertModel) start(book *ebook.Book) (tea.Cmd, error) {
	params := m.common.params

	engine, err := engines.NewKokoroEngine(engines.KokoroConfig{
		Binary: m.common.cfg.EngineBinary,
		Voice:  params.Voice,
		Speed:  params.Speed,
		Device: params.Engine,
		Cache:  m.common.cfg.Cache,
	})
	if err != nil {
		return nil, err
	}

	events := make(chan convert.Event)
	done := make(chan convertDoneMsg, 1)

	converter, err := convert.New(convert.Options{
		Engine:    engine,
		OutputDir: params.OutputFolder,
		KeepWAVs:  m.common.cfg.KeepWAVs,
		Events:    func(e convert.Event) { events <- e },
	})
	if err != nil {
		engine.Close() //nolint:errcheck
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFn = cancel
	m.events = events
	m.done = done

	go func() {
		defer engine.Close() //nolint:errcheck
		path, err := converter.Convert(ctx, book)
		done <- convertDoneMsg{path: path, err: err}
	}()

	return tea.Batch(m.spinner.Tick, m.waitForEvent()), nil
}

// cancel stops a running conversion. Safe to call when none is running.
func (m *convertModel) cancel() {
	if m.cancelFn != nil {
		m.cancelFn()
		m.cancelFn = nil
	}
}

// waitForEvent blocks until the conversion reports progress or finishes.
func (m convertModel) waitForEvent() tea.Cmd {
	events, done := m.events, m.done
	return func() tea.Msg {
		select {
		case e := <-events:
			return convertEventMsg{event: e}
		case d := <-done:
			return d
		}
	}
}

func (m convertModel) update(msg tea.Msg) (convertModel, tea.Cmd) {
	switch msg := msg.(type) {
	case convertEventMsg:
		switch e := msg.event.(type) {
		case convert.Started:
			m.chapters = e.Chapters

		case convert.ChapterStarted:
			m.current = e.Index
			m.currentName = e.Name

		case convert.Progress:
			m.percent = e.Percent
			m.rate = e.CharsPerSec
			m.eta = e.ETA

		case convert.Assembling:
			m.assembling = true

		case convert.Finished:
			m.outputPath = e.OutputPath
		}
		return m, m.waitForEvent()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m convertModel) view() string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("Converting "+m.common.cfg.Book.Title) + "\n\n")

	if m.assembling {
		b.WriteString("  " + m.spinner.View() + " assembling audiobook...\n")
	} else if m.current > 0 {
		b.WriteString(fmt.Sprintf("  %s chapter %d/%d: %s\n",
			m.spinner.View(), m.current, m.chapters, m.currentName))
	} else {
		b.WriteString("  " + m.spinner.View() + " warming up...\n")
	}

	b.WriteString("\n  " + m.progress.ViewAs(m.percent/100) + "\n\n")
	b.WriteString("  " + subtleStyle.Render(fmt.Sprintf("%s, ETA %s",
		convert.FormatRate(m.rate), convert.FormatETA(m.eta))) + "\n")
	b.WriteString("\n  " + helpStyle.Render("q: cancel and quit") + "\n")
	return b.String()
}
