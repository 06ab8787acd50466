// Package ui provides the interactive terminal interface for audiblez:
// chapter selection, voice and speed controls, preview playback and live
// conversion progress.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/audiblez/audiblez/internal/settings"
)

const statusMessageTimeout = 3 * time.Second

// TellsErrors lets the caller retrieve a fatal error after the program exits.
type TellsErrors interface {
	FatalError() error
}

// NewProgram returns a new Tea program.
func NewProgram(cfg Config) *tea.Program {
	log.Debug("starting tui",
		"book", cfg.Book.Title,
		"chapters", len(cfg.Book.Chapters))

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg), opts...)
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type statusMessageTimeoutMsg struct{}

// flashMsg shows a transient status line on the main screen.
type flashMsg struct{ text string }

// state is the top-level application state.
type state int

const (
	stateChapters state = iota
	statePickingVoice
	stateConverting
	stateDone
)

func (s state) String() string {
	return map[state]string{
		stateChapters:     "selecting chapters",
		statePickingVoice: "picking a voice",
		stateConverting:   "converting",
		stateDone:         "finished",
	}[s]
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg    Config
	width  int
	height int

	// Live narration parameters, initialized from the persisted settings.
	params settings.Settings
}

type model struct {
	common   *commonModel
	state    state
	fatalErr error

	// Sub-models
	chapters chaptersModel
	voices   voicesModel
	convert  convertModel

	statusMessage string
}

func newModel(cfg Config) model {
	common := &commonModel{
		cfg:    cfg,
		params: cfg.Settings,
	}
	return model{
		common:   common,
		state:    stateChapters,
		chapters: newChaptersModel(common),
		voices:   newVoicesModel(common),
		convert:  newConvertModel(common),
	}
}

// FatalError returns the error that ended the program, if any.
func (m model) FatalError() error { return m.fatalErr }

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been a fatal error, any key exits.
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.convert.cancel()
			m.persistSettings()
			return m, tea.Quit

		case "q":
			// During voice filtering "q" is text, not quit.
			if m.state == statePickingVoice {
				break
			}
			if m.state == stateConverting {
				m.convert.cancel()
			}
			m.persistSettings()
			return m, tea.Quit

		case "esc":
			if m.state == statePickingVoice {
				m.state = stateChapters
				return m, nil
			}

		case "o":
			if m.state == stateDone {
				if err := OpenFolder(filepath.Dir(m.convert.outputPath)); err != nil {
					return m, m.flashStatus("could not open folder: " + err.Error())
				}
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.common.params.Window = settings.Window{Width: msg.Width, Height: msg.Height}
		m.chapters.setSize(msg.Width, msg.Height)
		m.convert.setSize(msg.Width, msg.Height)

	case errMsg:
		m.fatalErr = msg.err
		return m, nil

	case statusMessageTimeoutMsg:
		m.statusMessage = ""

	case flashMsg:
		return m, m.flashStatus(msg.text)

	case openVoicePickerMsg:
		m.state = statePickingVoice
		return m, m.voices.focus()

	case voicePickedMsg:
		m.common.params.Voice = msg.voice
		m.state = stateChapters
		return m, m.flashStatus("voice set to " + msg.voice)

	case startConversionMsg:
		m.state = stateConverting
		cmd, err := m.convert.start(m.common.cfg.Book)
		if err != nil {
			m.fatalErr = err
			return m, nil
		}
		return m, cmd

	case convertDoneMsg:
		if msg.err != nil {
			m.state = stateChapters
			return m, m.flashStatus("conversion failed: " + msg.err.Error())
		}
		m.state = stateDone
		m.persistSettings()
		return m, nil
	}

	switch m.state {
	case stateChapters:
		newChapters, cmd := m.chapters.update(msg)
		m.chapters = newChapters
		cmds = append(cmds, cmd)

	case statePickingVoice:
		newVoices, cmd := m.voices.update(msg)
		m.voices = newVoices
		cmds = append(cmds, cmd)

	case stateConverting:
		newConvert, cmd := m.convert.update(msg)
		m.convert = newConvert
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}

	switch m.state {
	case statePickingVoice:
		return m.voices.view()
	case stateConverting:
		return m.convert.view()
	case stateDone:
		return m.doneView()
	default:
		v := m.chapters.view()
		if m.statusMessage != "" {
			v += "\n" + statusStyle.Render(m.statusMessage)
		}
		return v
	}
}

func (m model) doneView() string {
	s := fmt.Sprintf("%s\n\n%s\n\n%s",
		titleStyle.Render("Audiobook ready"),
		m.convert.outputPath,
		helpStyle.Render("o: open folder • q: quit"),
	)
	return "\n" + indent(s, 2)
}

// flashStatus shows a transient message in the status area.
func (m *model) flashStatus(text string) tea.Cmd {
	m.statusMessage = text
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{}
	})
}

func (m *model) persistSettings() {
	if err := settings.SaveDefault(m.common.params); err != nil {
		log.Warn("could not persist settings", "err", err)
	}
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle.Render("ERROR"),
		err,
		subtleStyle.Render(exitMsg),
	)
	return "\n" + indent(s, 3)
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
