// Package battery walks the user through one questionnaire, one item at
// a time.
package battery

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mindcheck/internal/checkin"
	"github.com/abhisek/mindcheck/internal/router"
	"github.com/abhisek/mindcheck/internal/screen"
	"github.com/abhisek/mindcheck/internal/screener"
	"github.com/abhisek/mindcheck/internal/ui/components"
	"github.com/abhisek/mindcheck/internal/ui/layout"
)

const spinnerInterval = 100 * time.Millisecond

// BatteryScreen implements screen.Screen for one questionnaire.
type BatteryScreen struct {
	session      *checkin.Session
	id           screener.ID
	next         func() screen.Screen
	battery      *checkin.Battery
	index        int
	picker       components.LevelPicker
	showInfo     bool
	regenerating bool
	spinnerFrame int
	finished     bool
	errMsg       string
}

var _ screen.Screen = (*BatteryScreen)(nil)
var _ screen.KeyHintProvider = (*BatteryScreen)(nil)

// New creates the screen for screener id. next builds the screen shown
// once every item is answered.
func New(session *checkin.Session, id screener.ID, next func() screen.Screen) *BatteryScreen {
	return &BatteryScreen{
		session: session,
		id:      id,
		next:    next,
		picker:  components.NewLevelPicker(-1),
	}
}

func (s *BatteryScreen) Init() tea.Cmd {
	if s.load() {
		return nil
	}
	return spin()
}

func spin() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// load picks up the prepared battery from the session. It reports false
// while the background rewrite is still running.
func (s *BatteryScreen) load() bool {
	b, ok := s.session.Battery(s.id)
	if !ok {
		return false
	}
	s.battery = b
	s.index = 0
	for i, it := range b.Screener.Items {
		if _, answered := b.Answers[it.Ordinal]; !answered {
			s.index = i
			break
		}
	}
	s.resetPicker()
	return true
}

func (s *BatteryScreen) resetPicker() {
	preset := screener.Level(-1)
	if l, ok := s.battery.Answers[s.ordinal()]; ok {
		preset = l
	}
	s.picker = components.NewLevelPicker(preset)
}

func (s *BatteryScreen) ordinal() int {
	return s.battery.Screener.Items[s.index].Ordinal
}

func (s *BatteryScreen) Title() string {
	sc, _ := screener.Lookup(s.id)
	return sc.Heading()
}

func (s *BatteryScreen) KeyHints() []layout.KeyHint {
	if s.battery == nil {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "←", Description: "Previous"},
		{Key: "r", Description: "Regenerate"},
		{Key: "i", Description: "AI status"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *BatteryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTickMsg:
		if s.battery != nil && !s.regenerating {
			return s, nil
		}
		s.spinnerFrame++
		if s.battery == nil && s.load() {
			return s, nil
		}
		return s, spin()

	case regeneratedMsg:
		s.regenerating = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.battery = msg.Battery
		s.resetPicker()
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *BatteryScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.battery == nil || s.regenerating || s.finished {
		return s, nil
	}

	switch msg.String() {
	case "i":
		s.showInfo = !s.showInfo
		return s, nil
	case "r":
		s.regenerating = true
		return s, tea.Batch(s.regenerate(), spin())
	case "left", "backspace":
		if s.index > 0 {
			s.index--
			s.resetPicker()
		}
		return s, nil
	}

	s.picker, _ = s.picker.Update(msg)
	if !s.picker.Done {
		return s, nil
	}
	return s.answer(s.picker.Chosen)
}

func (s *BatteryScreen) answer(level screener.Level) (screen.Screen, tea.Cmd) {
	ord := s.ordinal()
	if err := s.session.Answer(s.id, ord, level); err != nil {
		s.errMsg = err.Error()
		s.resetPicker()
		return s, nil
	}
	s.battery.Answers[ord] = level

	if s.battery.Done() {
		s.finished = true
		next := s.next()
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}

	// Move to the next unanswered item, wrapping to earlier gaps.
	n := len(s.battery.Screener.Items)
	for step := 1; step <= n; step++ {
		i := (s.index + step) % n
		if _, ok := s.battery.Answers[s.battery.Screener.Items[i].Ordinal]; !ok {
			s.index = i
			break
		}
	}
	s.resetPicker()
	return s, nil
}

func (s *BatteryScreen) regenerate() tea.Cmd {
	session, id := s.session, s.id
	return func() tea.Msg {
		b, err := session.Regenerate(context.Background(), id)
		return regeneratedMsg{Battery: b, Err: err}
	}
}
