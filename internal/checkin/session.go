// Package checkin ties one user's pass through both screeners together:
// the session id, the prepared batteries, the answers, the mood pick and
// the final report.
package checkin

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/mindcheck/internal/coping"
	"github.com/abhisek/mindcheck/internal/rewrite"
	"github.com/abhisek/mindcheck/internal/screener"
)

// Rewriter produces displayable items for a screener.
type Rewriter interface {
	Rewrite(ctx context.Context, in rewrite.Input) rewrite.Result
	Invalidate(session string)
}

// Battery is one screener as presented to the user.
type Battery struct {
	Screener screener.Screener
	Items    []string
	Meta     rewrite.Meta
	Answers  screener.AnswerSet
}

// Answered reports how many items have an answer.
func (b *Battery) Answered() int {
	return len(b.Answers)
}

// Done reports whether every item is answered.
func (b *Battery) Done() bool {
	return b.Answers.Complete(b.Screener) == nil
}

// Session is a single check-in. It is safe for concurrent use.
type Session struct {
	ID string

	rewriter Rewriter

	mu        sync.Mutex
	batteries map[screener.ID]*Battery
	mood      coping.Mood
}

// New starts a session with a fresh id.
func New(r Rewriter) *Session {
	return &Session{
		ID:        uuid.NewString(),
		rewriter:  r,
		batteries: make(map[screener.ID]*Battery),
	}
}

// Prepare rewrites the given screeners concurrently (both when ids is
// empty). Existing answers survive a re-prepare.
func (s *Session) Prepare(ctx context.Context, refresh bool, ids ...screener.ID) error {
	if len(ids) == 0 {
		ids = []screener.ID{screener.Anxiety, screener.Depression}
	}

	screeners := make([]screener.Screener, 0, len(ids))
	for _, id := range ids {
		sc, ok := screener.Lookup(id)
		if !ok {
			return fmt.Errorf("unknown screener %q", id)
		}
		screeners = append(screeners, sc)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, sc := range screeners {
		g.Go(func() error {
			res := s.rewriter.Rewrite(ctx, rewrite.Input{
				SessionID:    s.ID,
				Purpose:      string(sc.ID),
				Instruction:  sc.Instruction,
				Canonical:    sc.Texts(),
				ForceRefresh: refresh,
			})
			s.store(sc, res)
			return nil
		})
	}
	return g.Wait()
}

func (s *Session) store(sc screener.Screener, res rewrite.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batteries[sc.ID]
	if !ok {
		b = &Battery{Screener: sc, Answers: screener.AnswerSet{}}
		s.batteries[sc.ID] = b
	}
	b.Items = res.Items
	b.Meta = res.Meta
}

// Regenerate re-runs the rewrite for one screener, bypassing the cache.
func (s *Session) Regenerate(ctx context.Context, id screener.ID) (*Battery, error) {
	if err := s.Prepare(ctx, true, id); err != nil {
		return nil, err
	}
	b, _ := s.Battery(id)
	return b, nil
}

// Battery returns a snapshot of a prepared battery.
func (s *Session) Battery(id screener.ID) (*Battery, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batteries[id]
	if !ok {
		return nil, false
	}
	cp := *b
	cp.Items = append([]string(nil), b.Items...)
	cp.Answers = make(screener.AnswerSet, len(b.Answers))
	for k, v := range b.Answers {
		cp.Answers[k] = v
	}
	return &cp, true
}

// Answer records the level chosen for one item.
func (s *Session) Answer(id screener.ID, ordinal int, level screener.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batteries[id]
	if !ok {
		return fmt.Errorf("screener %q not prepared", id)
	}
	if err := (screener.AnswerSet{ordinal: level}).Validate(b.Screener); err != nil {
		return err
	}
	b.Answers[ordinal] = level
	return nil
}

// SetAnswers replaces all answers for one screener.
func (s *Session) SetAnswers(id screener.ID, answers screener.AnswerSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batteries[id]
	if !ok {
		return fmt.Errorf("screener %q not prepared", id)
	}
	if err := answers.Validate(b.Screener); err != nil {
		return err
	}
	b.Answers = screener.AnswerSet{}
	for k, v := range answers {
		b.Answers[k] = v
	}
	return nil
}

// SetMood records the mood picked on the mood screen.
func (s *Session) SetMood(m coping.Mood) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mood = m
}

// Mood returns the picked mood, if any.
func (s *Session) Mood() (coping.Mood, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mood, s.mood != ""
}

// Report scores both batteries. Every item must be answered.
func (s *Session) Report() (*Report, error) {
	gad, ok := s.Battery(screener.Anxiety)
	if !ok {
		return nil, fmt.Errorf("screener %q not prepared", screener.Anxiety)
	}
	phq, ok := s.Battery(screener.Depression)
	if !ok {
		return nil, fmt.Errorf("screener %q not prepared", screener.Depression)
	}
	if err := gad.Answers.Complete(gad.Screener); err != nil {
		return nil, err
	}
	if err := phq.Answers.Complete(phq.Screener); err != nil {
		return nil, err
	}

	r := NewReport(gad.Answers, phq.Answers)
	r.AnxietyMeta = gad.Meta
	r.DepressionMeta = phq.Meta
	r.Mood, _ = s.Mood()
	return r, nil
}

// Reset drops answers, mood and cached rewrites, keeping the session id.
func (s *Session) Reset() {
	s.rewriter.Invalidate(s.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.batteries = make(map[screener.ID]*Battery)
	s.mood = ""
}
