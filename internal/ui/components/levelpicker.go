package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mindcheck/internal/screener"
	"github.com/abhisek/mindcheck/internal/ui/theme"
)

// LevelPicker selects one of the four answer levels. Arrow keys move the
// cursor, enter or a digit 1-4 chooses.
type LevelPicker struct {
	Selected int
	Chosen   screener.Level
	Done     bool
}

// NewLevelPicker creates a picker with the cursor on preset, or on the
// first level when preset is out of range.
func NewLevelPicker(preset screener.Level) LevelPicker {
	sel := int(preset)
	if sel < 0 || sel > int(screener.MaxLevel) {
		sel = 0
	}
	return LevelPicker{Selected: sel, Chosen: -1}
}

// Update handles keyboard navigation and selection.
func (p LevelPicker) Update(msg tea.Msg) (LevelPicker, tea.Cmd) {
	if p.Done {
		return p, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if p.Selected > 0 {
			p.Selected--
		}
	case "down", "j":
		if p.Selected < int(screener.MaxLevel) {
			p.Selected++
		}
	case "enter":
		p.choose(p.Selected)
	case "1", "2", "3", "4":
		p.choose(int(key[0] - '1'))
	}

	return p, nil
}

func (p *LevelPicker) choose(i int) {
	p.Selected = i
	p.Chosen = screener.Level(i)
	p.Done = true
}

// View renders the options with their faces.
func (p LevelPicker) View() string {
	var b strings.Builder
	for i, l := range screener.Levels() {
		prefix := "  "
		if i == p.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s  %s", prefix, i+1, l.Emoji(), l.Label())
		if i == p.Selected {
			b.WriteString(theme.Selected.Render(line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
