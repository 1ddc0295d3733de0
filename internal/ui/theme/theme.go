// Package theme holds the palette and shared styles. The palette is soft
// and low-contrast so a check-in feels calm rather than clinical.
package theme

import (
	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#7C9CBF") // dusty blue
	Secondary = lipgloss.Color("#81B29A") // sage
	Accent    = lipgloss.Color("#F2CC8F") // sand
	Success   = Secondary
	Warning   = lipgloss.Color("#F2A65A") // apricot
	Error     = lipgloss.Color("#E07A5F") // terracotta
	Text      = lipgloss.Color("#F4F1DE") // cream
	TextDim   = lipgloss.Color("#9AA5B1") // mist
	BgCard    = lipgloss.Color("#26313F") // slate
	Border    = lipgloss.Color("#3D4A5C") // storm
)

var (
	// Card frames the badge on the results screen.
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	// Panel frames secondary information: tips, AI status.
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	Selected = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	// Accepted and Rejected mark whether AI wording is on screen.
	Accepted = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Rejected = lipgloss.NewStyle().Foreground(Warning).Bold(true)

	ProgressFilled = lipgloss.NewStyle().Foreground(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Foreground(Border)
)
