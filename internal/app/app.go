package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/disha/internal/dialogue"
	"github.com/abhisek/disha/internal/router"
	"github.com/abhisek/disha/internal/screen"
	"github.com/abhisek/disha/internal/screens/chat"
	"github.com/abhisek/disha/internal/screens/welcome"
	"github.com/abhisek/disha/internal/speech"
	"github.com/abhisek/disha/internal/ui/layout"
)

// Options carries the wired dependencies for the TUI.
type Options struct {
	Controller *dialogue.Controller
	Speaker    *speech.Speaker
	Capture    *speech.Capture
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router     *router.Router
	controller *dialogue.Controller
	width      int
	height     int
}

// newAppModel creates a new AppModel starting on the welcome screen.
func newAppModel(opts Options) AppModel {
	chatFactory := func() screen.Screen {
		// A nil *Capture must stay a nil interface inside the screen.
		var capture chat.VoiceCapture
		if opts.Capture != nil {
			capture = opts.Capture
		}
		return chat.New(opts.Controller, opts.Speaker, capture)
	}
	return AppModel{
		router:     router.New(welcome.New(chatFactory)),
		controller: opts.Controller,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.studentLabel(), m.width)

	var footerHints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = provider.KeyHints()
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) studentLabel() string {
	if m.controller == nil {
		return ""
	}
	session := m.controller.Session()
	if session.StudentName == "" {
		return ""
	}
	label := session.StudentName
	if session.ClassLevel != "" {
		label += " · " + session.ClassLevel
	}
	return label
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
