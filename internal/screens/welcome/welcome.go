// Package welcome is the intro screen: banner, a breathing dot and the
// disclaimer, then any key starts the check-in.
package welcome

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mindcheck/internal/router"
	"github.com/abhisek/mindcheck/internal/screen"
	"github.com/abhisek/mindcheck/internal/ui/theme"
)

const frameEvery = 100 * time.Millisecond

type stage int

const (
	stageBanner stage = iota
	stagePrompt
	stageReady
)

// Frames at which each stage starts.
var stageAt = [...]int{stageBanner: 0, stagePrompt: 5, stageReady: 15}

var breath = []string{"·", "•", "●", "•"}

const disclaimer = "A short wellness check-in. Not a diagnosis or a substitute for professional care."

type frameMsg struct{}

// WelcomeScreen replaces itself with the first check-in screen on the
// first key press.
type WelcomeScreen struct {
	next   func() screen.Screen
	frames int
	done   bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

// Title is empty; the banner stands in for it.
func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return nextFrame() }

func nextFrame() tea.Cmd {
	return tea.Tick(frameEvery, func(time.Time) tea.Msg { return frameMsg{} })
}

func (w *WelcomeScreen) stage() stage {
	s := stageBanner
	for st, at := range stageAt {
		if w.frames >= at {
			s = stage(st)
		}
	}
	return s
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if w.done {
		return w, nil
	}
	switch msg.(type) {
	case frameMsg:
		w.frames++
		return w, nextFrame()
	case tea.KeyPressMsg:
		w.done = true
		first := w.next()
		return w, func() tea.Msg { return router.ReplaceScreenMsg{Screen: first} }
	}
	return w, nil
}

func (w *WelcomeScreen) View(width, height int) string {
	lines := []string{RenderBanner(width)}
	st := w.stage()

	if st >= stagePrompt {
		dot := lipgloss.NewStyle().Foreground(theme.Secondary).Render(breath[w.frames%len(breath)])
		prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("How have the last two weeks been?")
		lines = append(lines, "", dot, "", prompt)
	}
	if st >= stageReady {
		note := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Width(min(width-4, 60)).
			Align(lipgloss.Center).
			Render(disclaimer)
		lines = append(lines, "", note, "", theme.Hint.Render("press any key to begin"))
	}

	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
