// Package screener holds the two standardized questionnaires, their
// canonical items and the scoring rubric used to classify a total.
package screener

// ID identifies a screener.
type ID string

const (
	Anxiety    ID = "gad7"
	Depression ID = "phq9"
)

// Urgency ranks how strongly a band should prompt the user to seek help.
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyModerate
	UrgencyElevated
	UrgencyHigh
)

// String returns a lowercase label for the urgency.
func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyModerate:
		return "moderate"
	case UrgencyElevated:
		return "elevated"
	case UrgencyHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Item is one canonical question. Ordinal is 1-based.
type Item struct {
	Ordinal int
	Text    string
}

// Band is one row of a severity table. A score belongs to the first band
// whose Upper bound is >= the score.
type Band struct {
	Upper   int
	Label   string
	Advice  string
	Urgency Urgency
}

// Summary renders the label with its advice, if any.
func (b Band) Summary() string {
	if b.Advice == "" {
		return b.Label
	}
	return b.Label + ": " + b.Advice
}

// Screener is a fixed questionnaire with its rubric.
type Screener struct {
	ID    ID
	Name  string // "GAD-7"
	Title string // "Anxiety Screener"
	Icon  string
	Items []Item
	Bands []Band

	// Instruction is the rewrite task text handed to the generation engines.
	Instruction string
}

// MaxScore returns the highest achievable total (3 points per item).
func (s Screener) MaxScore() int {
	return len(s.Items) * int(MaxLevel)
}

// Texts returns the item texts in ordinal order.
func (s Screener) Texts() []string {
	out := make([]string, len(s.Items))
	for i, it := range s.Items {
		out[i] = it.Text
	}
	return out
}

// Heading renders "GAD-7 (Anxiety Screener)".
func (s Screener) Heading() string {
	return s.Name + " (" + s.Title + ")"
}

// Canonical returns the ordered canonical items for id, or nil when the id
// is unknown.
func Canonical(id ID) []Item {
	s, ok := Lookup(id)
	if !ok {
		return nil
	}
	return s.Items
}

// Lookup returns the screener registered under id.
func Lookup(id ID) (Screener, bool) {
	switch id {
	case Anxiety:
		return AnxietyScreener(), true
	case Depression:
		return DepressionScreener(), true
	default:
		return Screener{}, false
	}
}

// All returns both screeners in presentation order.
func All() []Screener {
	return []Screener{AnxietyScreener(), DepressionScreener()}
}
