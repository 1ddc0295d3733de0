// Package coping lists mood categories and quick coping suggestions for
// each.
package coping

import (
	"fmt"
	"strings"
)

// Mood is a self-reported emotional state.
type Mood string

const (
	Anxious     Mood = "anxious"
	Depressed   Mood = "depressed"
	Stressed    Mood = "stressed"
	Overwhelmed Mood = "overwhelmed"
	Angry       Mood = "angry"
	Sad         Mood = "sad"
	CantSleep   Mood = "cant-sleep"
)

// AllMoods returns every mood in display order.
func AllMoods() []Mood {
	return []Mood{Anxious, Depressed, Stressed, Overwhelmed, Angry, Sad, CantSleep}
}

// DisplayName returns the label shown in selectors.
func (m Mood) DisplayName() string {
	switch m {
	case Anxious:
		return "Anxious"
	case Depressed:
		return "Depressed"
	case Stressed:
		return "Stressed"
	case Overwhelmed:
		return "Overwhelmed"
	case Angry:
		return "Angry"
	case Sad:
		return "Sad"
	case CantSleep:
		return "Can't Sleep"
	default:
		return string(m)
	}
}

var suggestions = map[Mood][]string{
	Anxious:     {"5-4-3-2-1 grounding", "2-min deep breathing", "Walk outside"},
	Depressed:   {"Drink water", "Text a friend", "Break 1 task into a tiny step"},
	Stressed:    {"Body-scan meditation", "Gratitude note", "Unplug for 5 minutes"},
	Overwhelmed: {"Prioritize one thing", "Quick todo list", "3-min quiet break"},
	Angry:       {"10 jumping jacks", "Hold something cold", "Write an unsent note"},
	Sad:         {"Comfort content", "Cuddle pet/pillow", "Let yourself cry"},
	CantSleep:   {"Sleep sounds", "No screens", "Progressive muscle relaxation"},
}

// Suggestions returns a copy of the tips for m, or nil for an unknown mood.
func Suggestions(m Mood) []string {
	tips, ok := suggestions[m]
	if !ok {
		return nil
	}
	return append([]string(nil), tips...)
}

// normalize folds case, apostrophes and separators so "Can't Sleep",
// "cant-sleep" and "CANT_SLEEP" compare equal.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer("'", "", "’", "", " ", "", "-", "", "_", "")
	return r.Replace(s)
}

// ParseMood resolves user input to a Mood.
func ParseMood(s string) (Mood, error) {
	key := normalize(s)
	for _, m := range AllMoods() {
		if normalize(string(m)) == key || normalize(m.DisplayName()) == key {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}

// Filter returns the moods whose display name contains query,
// case-insensitively. An empty query returns every mood.
func Filter(query string) []Mood {
	q := normalize(query)
	if q == "" {
		return AllMoods()
	}
	var out []Mood
	for _, m := range AllMoods() {
		if strings.Contains(normalize(m.DisplayName()), q) {
			out = append(out, m)
		}
	}
	return out
}
