package rewrite

import (
	"strings"
	"unicode/utf8"
)

// Normalize turns raw generated text into candidate lines: one per
// non-empty line, with list markers and numbering stripped and short
// fragments dropped.
func Normalize(text string, v *Vocabulary) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, v.StripChars))
		if utf8.RuneCountInString(line) < v.MinLineLength {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Filter keeps the lines accepted by p, in order.
func Filter(lines []string, p Predicate) []string {
	var kept []string
	for _, l := range lines {
		if p(l) {
			kept = append(kept, l)
		}
	}
	return kept
}

// Fallback patches canonical items so each one passes p. Items that
// already pass are returned untouched.
func Fallback(canonical []string, v *Vocabulary, p Predicate) []string {
	out := make([]string, len(canonical))
	for i, item := range canonical {
		if p(item) {
			out[i] = item
			continue
		}
		out[i] = v.FallbackPrefix + strings.TrimRight(strings.TrimSpace(item), "?") + "?"
	}
	return out
}
