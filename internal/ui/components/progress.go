package components

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mindcheck/internal/ui/theme"
)

const (
	cellFilled = "█"
	cellEmpty  = "░"
)

// ProgressBar is a one-line meter, used for questionnaire progress and
// the combined score.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar clamps percent into [0, 1].
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     max(0, min(percent, 1)),
		ShowPercent: showPercent,
		Width:       width,
	}
}

func (p ProgressBar) View() string {
	var prefix, suffix string
	if p.Label != "" {
		prefix = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.ShowPercent {
		suffix = theme.Hint.Render(" " + strconv.Itoa(int(p.Percent*100)) + "%")
	}

	cells := max(4, p.Width-lipgloss.Width(prefix)-lipgloss.Width(suffix))
	lit := int(float64(cells)*p.Percent + 0.5)
	lit = max(0, min(lit, cells))

	return prefix +
		theme.ProgressFilled.Render(strings.Repeat(cellFilled, lit)) +
		theme.ProgressEmpty.Render(strings.Repeat(cellEmpty, cells-lit)) +
		suffix
}
