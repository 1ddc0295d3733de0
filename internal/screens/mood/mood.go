// Package mood is the first check-in screen: pick how you feel, see a few
// coping ideas, while both questionnaires are prepared in the background.
package mood

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mindcheck/internal/checkin"
	"github.com/abhisek/mindcheck/internal/coping"
	"github.com/abhisek/mindcheck/internal/router"
	"github.com/abhisek/mindcheck/internal/screen"
	"github.com/abhisek/mindcheck/internal/ui/components"
	"github.com/abhisek/mindcheck/internal/ui/layout"
	"github.com/abhisek/mindcheck/internal/ui/theme"
)

// preparedMsg reports that the background Prepare finished.
type preparedMsg struct {
	Err error
}

// MoodScreen filters and picks a mood.
type MoodScreen struct {
	session  *checkin.Session
	next     func() screen.Screen
	input    components.TextInput
	list     components.List
	matches  []coping.Mood
	picked   coping.Mood
	prepared bool
	errMsg   string
}

var _ screen.Screen = (*MoodScreen)(nil)
var _ screen.KeyHintProvider = (*MoodScreen)(nil)

// New creates the mood screen. next builds the first questionnaire screen.
func New(session *checkin.Session, next func() screen.Screen) *MoodScreen {
	m := &MoodScreen{
		session: session,
		next:    next,
		input:   components.NewTextInput("type to filter, e.g. sleep", 24),
	}
	m.refilter()
	return m
}

func (m *MoodScreen) Init() tea.Cmd {
	return tea.Batch(m.input.Init(), m.prepare())
}

// prepare rewrites both questionnaires while the user picks a mood.
func (m *MoodScreen) prepare() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return preparedMsg{Err: session.Prepare(context.Background(), false)}
	}
}

func (m *MoodScreen) Title() string {
	return "How are you feeling?"
}

func (m *MoodScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Pick mood"},
		{Key: "Tab", Description: "Start questions"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m *MoodScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case preparedMsg:
		m.prepared = true
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		}
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "down":
			m.list, _ = m.list.Update(msg)
			return m, nil
		case "enter":
			if len(m.matches) > 0 {
				m.picked = m.matches[m.list.Selected]
				m.session.SetMood(m.picked)
			}
			return m, nil
		case "tab":
			next := m.next()
			return m, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Changed() {
		m.refilter()
	}
	return m, cmd
}

func (m *MoodScreen) refilter() {
	m.matches = coping.Filter(m.input.Value())
	names := make([]string, len(m.matches))
	for i, mood := range m.matches {
		names[i] = mood.DisplayName()
	}
	m.list.SetItems(names)
}

// Picked returns the chosen mood, or "" before a pick.
func (m *MoodScreen) Picked() coping.Mood {
	return m.picked
}

func (m *MoodScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(layout.Centered("Pick the word closest to how you feel right now.", width, theme.Text))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, m.input.View()))
	b.WriteString("\n\n")

	if len(m.matches) == 0 {
		b.WriteString(layout.Centered("No matching mood.", width, theme.TextDim))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, m.list.View()))
	}
	b.WriteString("\n")

	if m.picked != "" {
		var tips strings.Builder
		tips.WriteString(theme.Selected.Render("Feeling " + m.picked.DisplayName() + "? Try one of these:"))
		for _, tip := range coping.Suggestions(m.picked) {
			tips.WriteString("\n  • " + tip)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Panel.Render(tips.String())))
		b.WriteString("\n\n")
	}

	status := "Preparing your questions…"
	if m.prepared {
		status = "Questions ready. Press Tab when you are."
	}
	if m.errMsg != "" {
		status = "Could not prepare questions: " + m.errMsg
	}
	b.WriteString(layout.Centered(status, width, theme.TextDim))

	return b.String()
}
