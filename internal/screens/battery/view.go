package battery

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mindcheck/internal/ui/components"
	"github.com/abhisek/mindcheck/internal/ui/layout"
	"github.com/abhisek/mindcheck/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const prompt = "Over the last 2 weeks, how often have you been bothered by this?"

func (s *BatteryScreen) View(width, height int) string {
	if s.battery == nil {
		return s.renderWaiting(width, "Preparing your questions")
	}
	if s.regenerating {
		return s.renderWaiting(width, "Rewriting these questions")
	}

	b := s.battery
	var out strings.Builder

	// Progress line.
	counter := fmt.Sprintf("Question %d of %d", s.index+1, len(b.Items))
	out.WriteString(layout.Centered(counter, width, theme.TextDim))
	out.WriteString("\n")
	bar := components.NewProgressBar("", float64(b.Answered())/float64(len(b.Items)), true, min(width-8, 50))
	out.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	out.WriteString("\n\n")

	// Item text.
	out.WriteString(layout.Centered(prompt, width, theme.TextDim))
	out.WriteString("\n\n")
	item := lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(b.Items[s.index])
	out.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, item))
	out.WriteString("\n\n")

	out.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.picker.View()))
	out.WriteString("\n")

	out.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderStatus()))

	if s.errMsg != "" {
		out.WriteString("\n")
		out.WriteString(layout.Centered(s.errMsg, width, theme.Error))
	}

	return out.String()
}

func (s *BatteryScreen) renderWaiting(width int, label string) string {
	frame := spinnerFrames[s.spinnerFrame%len(spinnerFrames)]
	return "\n\n" + layout.Centered(frame+" "+label+"…", width, theme.TextDim)
}

// renderStatus shows whether AI phrasing is in use, expanded into the
// status panel when toggled.
func (s *BatteryScreen) renderStatus() string {
	meta := s.battery.Meta

	summary := theme.Rejected.Render("AI output not used, showing standard wording")
	if meta.Accepted {
		summary = theme.Accepted.Render("✓ Situational wording by AI")
	}
	if !s.showInfo {
		return summary
	}

	model := meta.Engine
	if model == "" {
		model = "none"
	}
	accepted := "no"
	if meta.Accepted {
		accepted = "yes"
	}
	lines := []string{
		theme.Selected.Render("AI status"),
		"Model used: " + model,
		"AI output accepted: " + accepted,
		"Reason: " + meta.Reason,
	}
	return theme.Panel.Render(strings.Join(lines, "\n"))
}
