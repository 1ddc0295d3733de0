package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mindcheck/internal/ui/theme"
)

// List is a vertical cursor over string labels. It does not act on
// enter; the owning screen reads Selected.
type List struct {
	Items    []string
	Selected int
}

// NewList creates a list with the cursor on the first item.
func NewList(items []string) List {
	return List{Items: items}
}

// SetItems replaces the items and keeps the cursor in range.
func (l *List) SetItems(items []string) {
	l.Items = items
	if l.Selected >= len(items) {
		l.Selected = max(0, len(items)-1)
	}
}

// Current returns the label under the cursor.
func (l List) Current() (string, bool) {
	if l.Selected < 0 || l.Selected >= len(l.Items) {
		return "", false
	}
	return l.Items[l.Selected], true
}

// Update moves the cursor on up/down.
func (l List) Update(msg tea.Msg) (List, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch kmsg.String() {
	case "up":
		if l.Selected > 0 {
			l.Selected--
		}
	case "down":
		if l.Selected < len(l.Items)-1 {
			l.Selected++
		}
	}
	return l, nil
}

// View renders the list.
func (l List) View() string {
	var b strings.Builder
	for i, item := range l.Items {
		if i == l.Selected {
			b.WriteString(theme.Selected.Render("  ▸ " + item))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("    " + item))
		}
		b.WriteString("\n")
	}
	return b.String()
}
