package checkin

import (
	"github.com/abhisek/mindcheck/internal/badges"
	"github.com/abhisek/mindcheck/internal/coping"
	"github.com/abhisek/mindcheck/internal/rewrite"
	"github.com/abhisek/mindcheck/internal/screener"
)

// Report is the scored outcome of a check-in.
type Report struct {
	AnxietyScore    int
	DepressionScore int
	AnxietyBand     screener.Band
	DepressionBand  screener.Band
	Badge           badges.Badge
	Mood            coping.Mood

	AnxietyMeta    rewrite.Meta
	DepressionMeta rewrite.Meta
}

// NewReport scores two answer sets. Answers are not validated here.
func NewReport(gad, phq screener.AnswerSet) *Report {
	gadScore := gad.Score()
	phqScore := phq.Score()
	return &Report{
		AnxietyScore:    gadScore,
		DepressionScore: phqScore,
		AnxietyBand:     screener.Classify(gadScore, screener.AnxietyScreener()),
		DepressionBand:  screener.Classify(phqScore, screener.DepressionScreener()),
		Badge:           badges.Award(gadScore, phqScore),
	}
}

// MaxCombined is the highest combined score of both screeners.
func MaxCombined() int {
	return screener.AnxietyScreener().MaxScore() + screener.DepressionScreener().MaxScore()
}

// Progress is the combined score as a fraction of MaxCombined.
func (r *Report) Progress() float64 {
	return float64(r.AnxietyScore+r.DepressionScore) / float64(MaxCombined())
}

// Tips returns coping suggestions for the picked mood, or nil.
func (r *Report) Tips() []string {
	if r.Mood == "" {
		return nil
	}
	return coping.Suggestions(r.Mood)
}
