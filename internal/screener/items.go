package screener

var anxietyItems = []string{
	"You’re at work or school and feel your chest tighten. How often does that happen?",
	"You worry even when everything seems fine. How often does this happen?",
	"You stay up late thinking about the worst that could happen. How often is this true?",
	"You notice your muscles tensing or struggle to relax. How often do you feel that?",
	"You fidget a lot or can’t sit still. How frequently does this affect you?",
	"You snap at small things more than usual. How often is this true?",
	"You avoid plans or places out of worry. How often do you do that?",
}

var depressionItems = []string{
	"You used to enjoy certain things—how interested are you in them lately?",
	"Do mornings feel heavy, like starting the day takes extra effort?",
	"Has your sleep been off—too much or too little?",
	"How often do you feel tired or low on energy?",
	"Has your appetite changed—eating more or less than usual?",
	"Do you find yourself feeling guilty or putting yourself down more often?",
	"Is it harder to focus on reading, shows, or conversations?",
	"Have you felt slowed down or, the opposite, unusually restless?",
	"Have you had thoughts that life isn’t worth it or that you’d be better off gone?",
}

var anxietyBands = []Band{
	{Upper: 4, Label: "Minimal anxiety", Urgency: UrgencyLow},
	{Upper: 9, Label: "Mild anxiety", Urgency: UrgencyLow},
	{Upper: 14, Label: "Moderate anxiety", Advice: "consider professional support.", Urgency: UrgencyModerate},
	{Upper: 21, Label: "Severe anxiety", Advice: "please seek help.", Urgency: UrgencyHigh},
}

var depressionBands = []Band{
	{Upper: 4, Label: "Minimal depression", Urgency: UrgencyLow},
	{Upper: 9, Label: "Mild depression", Urgency: UrgencyLow},
	{Upper: 14, Label: "Moderate depression", Advice: "consider support.", Urgency: UrgencyModerate},
	{Upper: 19, Label: "Moderately severe depression", Advice: "therapy recommended.", Urgency: UrgencyElevated},
	{Upper: 27, Label: "Severe depression", Advice: "seek help immediately.", Urgency: UrgencyHigh},
}

const anxietyInstruction = "Rewrite the 7 GAD-7 items as CONCRETE, REAL-LIFE SITUATIONS. " +
	"Each line must start with a context like 'At work…', 'Before bed…', 'In public…', " +
	"'With friends…', 'During class…', 'On your commute…'. Keep meaning; ≤20 words; one line per item."

const depressionInstruction = "Rewrite the 9 PHQ-9 items as CONCRETE, REAL-LIFE SITUATIONS. " +
	"Each line must start with a context like 'Waking up…', 'When plans fall through…', 'On weekends…', " +
	"'During chores…', 'While studying…', 'With family…'. Keep meaning; ≤20 words; one line per item."

func items(texts []string) []Item {
	out := make([]Item, len(texts))
	for i, t := range texts {
		out[i] = Item{Ordinal: i + 1, Text: t}
	}
	return out
}

// AnxietyScreener returns the 7-item GAD-7 screener.
func AnxietyScreener() Screener {
	return Screener{
		ID:          Anxiety,
		Name:        "GAD-7",
		Title:       "Anxiety Screener",
		Icon:        "😰",
		Items:       items(anxietyItems),
		Bands:       append([]Band(nil), anxietyBands...),
		Instruction: anxietyInstruction,
	}
}

// DepressionScreener returns the 9-item PHQ-9 screener.
func DepressionScreener() Screener {
	return Screener{
		ID:          Depression,
		Name:        "PHQ-9",
		Title:       "Depression Screener",
		Icon:        "😔",
		Items:       items(depressionItems),
		Bands:       append([]Band(nil), depressionBands...),
		Instruction: depressionInstruction,
	}
}
