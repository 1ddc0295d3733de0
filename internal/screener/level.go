package screener

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is an answer on the four-point frequency scale. Its value is also
// the points it contributes to the score.
type Level int

const (
	NotAtAll Level = iota
	SeveralDays
	MoreThanHalf
	NearlyEveryDay
)

// MaxLevel is the highest answer level.
const MaxLevel = NearlyEveryDay

// Levels returns all levels in ascending order.
func Levels() []Level {
	return []Level{NotAtAll, SeveralDays, MoreThanHalf, NearlyEveryDay}
}

// Label returns the answer text.
func (l Level) Label() string {
	switch l {
	case NotAtAll:
		return "Not at all"
	case SeveralDays:
		return "Several days"
	case MoreThanHalf:
		return "More than half the days"
	case NearlyEveryDay:
		return "Nearly every day"
	default:
		return fmt.Sprintf("Level %d", int(l))
	}
}

// Emoji returns the face shown next to the answer.
func (l Level) Emoji() string {
	switch l {
	case NotAtAll:
		return "😄"
	case SeveralDays:
		return "🙂"
	case MoreThanHalf:
		return "😐"
	case NearlyEveryDay:
		return "😟"
	default:
		return "❔"
	}
}

// String renders emoji and label together.
func (l Level) String() string {
	return l.Emoji() + " " + l.Label()
}

// ParseLevels parses a comma separated list of answer indexes such as
// "0,1,3,2". Range checking is left to AnswerSet.Validate.
func ParseLevels(s string) ([]Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]Level, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("parse answer %q: %w", p, err)
		}
		out = append(out, Level(n))
	}
	return out, nil
}
