// Package results shows the scored check-in: both bands, the badge, the
// combined progress bar and where to find help.
package results

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mindcheck/internal/checkin"
	"github.com/abhisek/mindcheck/internal/router"
	"github.com/abhisek/mindcheck/internal/screen"
	"github.com/abhisek/mindcheck/internal/screener"
	"github.com/abhisek/mindcheck/internal/ui/components"
	"github.com/abhisek/mindcheck/internal/ui/layout"
	"github.com/abhisek/mindcheck/internal/ui/theme"
)

// ResourcesURL is where the results screen points for immediate help.
const ResourcesURL = "https://www.mentalhealth.gov/get-help"

const disclaimer = "This check-in is not a diagnosis. If you are struggling, please reach out to a professional."

// ResultsScreen displays the check-in report.
type ResultsScreen struct {
	report  *checkin.Report
	restart func() screen.Screen
	errMsg  string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New scores the session. restart builds the first screen of a new
// check-in.
func New(session *checkin.Session, restart func() screen.Screen) *ResultsScreen {
	s := &ResultsScreen{restart: restart}
	r, err := session.Report()
	if err != nil {
		s.errMsg = err.Error()
	}
	s.report = r
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Your Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "n", Description: "New check-in"},
		{Key: "q", Description: "Quit"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "n":
			first := s.restart()
			return s, func() tea.Msg { return router.ResetScreenMsg{Screen: first} }
		case "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

// Report returns the scored report, or nil when scoring failed.
func (s *ResultsScreen) Report() *checkin.Report {
	return s.report
}

func urgencyColor(u screener.Urgency) color.Color {
	switch u {
	case screener.UrgencyLow:
		return theme.Success
	case screener.UrgencyModerate:
		return theme.Accent
	case screener.UrgencyElevated:
		return theme.Warning
	default:
		return theme.Error
	}
}

func (s *ResultsScreen) View(width, height int) string {
	if s.report == nil {
		return "\n\n" + layout.Centered("Could not score this check-in: "+s.errMsg, width, theme.Error)
	}
	r := s.report

	var b strings.Builder
	b.WriteString("\n")

	gad := screener.AnxietyScreener()
	phq := screener.DepressionScreener()
	b.WriteString(renderScore(gad, r.AnxietyScore, r.AnxietyBand, width))
	b.WriteString("\n")
	b.WriteString(renderScore(phq, r.DepressionScore, r.DepressionBand, width))
	b.WriteString("\n\n")

	// Badge.
	badge := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render(r.Badge.Title())
	msg := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(min(width-12, 60)).
		Align(lipgloss.Center).
		Render(r.Badge.Tier.Message())
	card := theme.Card.Render(lipgloss.JoinVertical(lipgloss.Center, badge, "", msg))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	// Combined progress.
	label := fmt.Sprintf("Combined %d/%d", r.AnxietyScore+r.DepressionScore, checkin.MaxCombined())
	bar := components.NewProgressBar(label, r.Progress(), true, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	if tips := r.Tips(); len(tips) > 0 {
		b.WriteString(layout.Centered("For feeling "+r.Mood.DisplayName()+": "+strings.Join(tips, " · "), width, theme.Secondary))
		b.WriteString("\n\n")
	}

	b.WriteString(layout.Centered(disclaimer, width, theme.TextDim))
	b.WriteString("\n")
	b.WriteString(layout.Centered("Resources: "+ResourcesURL, width, theme.Primary))

	return b.String()
}

func renderScore(sc screener.Screener, score int, band screener.Band, width int) string {
	head := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("%s %s score: %d/%d", sc.Icon, sc.Name, score, sc.MaxScore()))
	detail := lipgloss.NewStyle().
		Foreground(urgencyColor(band.Urgency)).
		Render(band.Summary())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, head+"  "+detail)
}
