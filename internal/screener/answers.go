package screener

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrIncomplete is returned by Complete when an item has no answer.
var ErrIncomplete = errors.New("incomplete answer set")

// AnswerSet maps an item ordinal to the chosen level.
type AnswerSet map[int]Level

// FromLevels builds an AnswerSet where levels[i] answers ordinal i+1.
func FromLevels(levels []Level) AnswerSet {
	a := make(AnswerSet, len(levels))
	for i, l := range levels {
		a[i+1] = l
	}
	return a
}

// Validate checks that every ordinal belongs to s and every level is 0-3.
func (a AnswerSet) Validate(s Screener) error {
	ordinals := make([]int, 0, len(a))
	for ord := range a {
		ordinals = append(ordinals, ord)
	}
	sort.Ints(ordinals)

	ordRule := fmt.Sprintf("min=1,max=%d", len(s.Items))
	for _, ord := range ordinals {
		if err := validate.Var(ord, ordRule); err != nil {
			return fmt.Errorf("%s: item %d does not exist", s.Name, ord)
		}
		if err := validate.Var(int(a[ord]), "min=0,max=3"); err != nil {
			return fmt.Errorf("%s item %d: level %d out of range 0-3", s.Name, ord, int(a[ord]))
		}
	}
	return nil
}

// Complete validates a and additionally requires an answer for every item.
func (a AnswerSet) Complete(s Screener) error {
	if err := a.Validate(s); err != nil {
		return err
	}
	for _, it := range s.Items {
		if _, ok := a[it.Ordinal]; !ok {
			return fmt.Errorf("%w: %s item %d unanswered", ErrIncomplete, s.Name, it.Ordinal)
		}
	}
	return nil
}

// Score sums the point value of every answer.
func Score(a AnswerSet) int {
	total := 0
	for _, l := range a {
		total += int(l)
	}
	return total
}

// Score is a method form of the package-level Score.
func (a AnswerSet) Score() int {
	return Score(a)
}

// Classify returns the first band whose upper bound is >= score. Scores
// outside [0, MaxScore] are clamped, so every integer maps to a band.
func Classify(score int, s Screener) Band {
	if len(s.Bands) == 0 {
		return Band{}
	}
	score = max(0, min(score, s.MaxScore()))
	for _, b := range s.Bands {
		if score <= b.Upper {
			return b
		}
	}
	return s.Bands[len(s.Bands)-1]
}
