// Package badges maps the pair of screener scores to a self-care badge.
package badges

// Tier identifies the badge earned for a check-in.
type Tier string

const (
	TierMindfulMover      Tier = "mindful-mover"
	TierResilienceBuilder Tier = "resilience-builder"
	TierCourageousWarrior Tier = "courageous-warrior"
)

// AllTiers returns all tiers from lowest to highest combined severity.
func AllTiers() []Tier {
	return []Tier{TierMindfulMover, TierResilienceBuilder, TierCourageousWarrior}
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierMindfulMover:
		return "Mindful Mover"
	case TierResilienceBuilder:
		return "Resilience Builder"
	case TierCourageousWarrior:
		return "Courageous Warrior"
	default:
		return string(t)
	}
}

// Icon returns the display icon for the tier.
func (t Tier) Icon() string {
	switch t {
	case TierMindfulMover:
		return "✅"
	case TierResilienceBuilder:
		return "🌱"
	case TierCourageousWarrior:
		return "🛡️"
	default:
		return "✦"
	}
}

// Message returns the encouragement shown with the badge.
func (t Tier) Message() string {
	switch t {
	case TierMindfulMover:
		return "keep up the self-care!"
	case TierResilienceBuilder:
		return "you’re showing strength."
	case TierCourageousWarrior:
		return "you’re fighting hard. Please talk to someone."
	default:
		return ""
	}
}

// Rank orders tiers: 1 for the lowest, 3 for the highest.
func (t Tier) Rank() int {
	for i, tt := range AllTiers() {
		if tt == t {
			return i + 1
		}
	}
	return 0
}

// Badge is the awarded tier together with the scores that earned it.
type Badge struct {
	Tier            Tier
	AnxietyScore    int
	DepressionScore int
}

// Title renders "✅ Mindful Mover Badge".
func (b Badge) Title() string {
	return b.Tier.Icon() + " " + b.Tier.DisplayName() + " Badge"
}

// String renders the title with the tier message.
func (b Badge) String() string {
	return b.Title() + " — " + b.Tier.Message()
}

const (
	midThreshold  = 10
	highThreshold = 15
)

// Classify returns the tier for a pair of scores. Checks run in priority
// order: both scores below 10 is the low tier, then either score in
// [10,15) is the mid tier, otherwise the high tier.
func Classify(anxiety, depression int) Tier {
	switch {
	case anxiety < midThreshold && depression < midThreshold:
		return TierMindfulMover
	case inMid(anxiety) || inMid(depression):
		return TierResilienceBuilder
	default:
		return TierCourageousWarrior
	}
}

func inMid(score int) bool {
	return score >= midThreshold && score < highThreshold
}

// Award builds the Badge for a pair of scores.
func Award(anxiety, depression int) Badge {
	return Badge{
		Tier:            Classify(anxiety, depression),
		AnxietyScore:    anxiety,
		DepressionScore: depression,
	}
}
