// Package app wires the check-in screens into a Bubble Tea program.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mindcheck/internal/checkin"
	"github.com/abhisek/mindcheck/internal/router"
	"github.com/abhisek/mindcheck/internal/screen"
	"github.com/abhisek/mindcheck/internal/screens/battery"
	"github.com/abhisek/mindcheck/internal/screens/mood"
	"github.com/abhisek/mindcheck/internal/screens/results"
	"github.com/abhisek/mindcheck/internal/screens/welcome"
	"github.com/abhisek/mindcheck/internal/screener"
	"github.com/abhisek/mindcheck/internal/ui/layout"
)

// Options carries the dependencies of the TUI.
type Options struct {
	Session *checkin.Session

	// Status is shown on the right of the header, e.g. "AI: 3 engines".
	Status string
}

// flow builds the screens of one check-in in order:
// welcome → mood → anxiety → depression → results.
type flow struct {
	session *checkin.Session
}

func (f flow) mood() screen.Screen {
	return mood.New(f.session, func() screen.Screen { return f.battery(screener.Anxiety) })
}

func (f flow) battery(id screener.ID) screen.Screen {
	next := f.results
	if id == screener.Anxiety {
		next = func() screen.Screen { return f.battery(screener.Depression) }
	}
	return battery.New(f.session, id, next)
}

func (f flow) results() screen.Screen {
	return results.New(f.session, f.restart)
}

func (f flow) restart() screen.Screen {
	f.session.Reset()
	return f.mood()
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status string
	width  int
	height int
}

// newAppModel creates an AppModel starting at the welcome screen.
func newAppModel(opts Options) AppModel {
	f := flow{session: opts.Session}
	return AppModel{
		router: router.New(welcome.New(f.mood)),
		status: opts.Status,
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

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "any key", Description: "Begin"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws header, active screen and footer for the current size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opts Options) error {
	if opts.Session == nil {
		return fmt.Errorf("app: no check-in session")
	}
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
