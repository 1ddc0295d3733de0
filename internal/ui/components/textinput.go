package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput is a focused single-line filter field. It remembers whether
// the last Update edited the text so callers only refilter on change.
type TextInput struct {
	field   textinput.Model
	changed bool
}

// NewTextInput returns a focused field. A charLimit of zero means no
// limit.
func NewTextInput(placeholder string, charLimit int) TextInput {
	field := textinput.New()
	field.Prompt = "› "
	field.Placeholder = placeholder
	field.CharLimit = max(charLimit, 0)
	field.Focus()
	return TextInput{field: field}
}

func (t TextInput) Init() tea.Cmd {
	return t.field.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	before := t.field.Value()
	var cmd tea.Cmd
	t.field, cmd = t.field.Update(msg)
	t.changed = t.field.Value() != before
	return t, cmd
}

// Changed reports whether the most recent Update edited the text.
func (t TextInput) Changed() bool { return t.changed }

func (t TextInput) Value() string { return t.field.Value() }

func (t *TextInput) SetValue(s string) {
	t.changed = s != t.field.Value()
	t.field.SetValue(s)
}

func (t TextInput) View() string { return t.field.View() }
