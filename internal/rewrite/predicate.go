package rewrite

import "strings"

// Predicate reports whether one normalized line is acceptable.
type Predicate func(line string) bool

// Situational returns the default predicate: the line must be a question
// and must mention at least one situation marker from v.
func Situational(v *Vocabulary) Predicate {
	markers := make([]string, len(v.Markers))
	for i, m := range v.Markers {
		markers[i] = strings.ToLower(m)
	}
	return func(line string) bool {
		if !strings.Contains(line, "?") {
			return false
		}
		lower := strings.ToLower(line)
		for _, m := range markers {
			if strings.Contains(lower, m) {
				return true
			}
		}
		return false
	}
}
