// Package rewrite turns canonical screener items into short situational
// questions using one or more generation engines, and falls back to
// patched canonical items when no engine produces a usable batch.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/mindcheck/internal/llm"
	"github.com/abhisek/mindcheck/internal/metrics"
	"github.com/abhisek/mindcheck/internal/store"
)

const reasonNotAttempted = "not attempted"

// Config controls pacing of the attempt loop.
type Config struct {
	// Backoff is the pause between failed attempts. Default: 200ms.
	Backoff time.Duration `validate:"gte=0"`

	// MaxBackoff caps the pause when an engine asks for a longer
	// retry-after. Default: 2s.
	MaxBackoff time.Duration `validate:"gtefield=Backoff"`

	// AttemptTimeout bounds one generation call. Default: 8s.
	AttemptTimeout time.Duration `validate:"gt=0"`
}

// DefaultConfig returns the standard pacing.
func DefaultConfig() Config {
	return Config{
		Backoff:        200 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		AttemptTimeout: 8 * time.Second,
	}
}

// Input is one rewrite request.
type Input struct {
	SessionID    string
	Purpose      string // journal label, e.g. the screener id
	Instruction  string
	Canonical    []string
	ForceRefresh bool
}

// Meta describes how a Result was produced.
type Meta struct {
	Engine   string
	Accepted bool
	Reason   string
}

// Result always holds exactly len(Input.Canonical) items.
type Result struct {
	Items []string
	Meta  Meta
}

func (r Result) clone() Result {
	r.Items = append([]string(nil), r.Items...)
	return r
}

// validationError reports a batch whose accepted line count was not the
// expected one.
type validationError struct {
	got    int
	strict bool
}

func (e *validationError) Error() string {
	return fmt.Sprintf("got %d valid scenario lines (strict=%t)", e.got, e.strict)
}

// Rewriter runs the engine ladder for a batch of items.
type Rewriter struct {
	engines   []llm.Engine
	vocab     *Vocabulary
	predicate Predicate
	cache     *Cache
	config    Config
	logger    *zap.Logger
	metrics   *metrics.Metrics
	journal   store.EventRepo

	sleep func(ctx context.Context, d time.Duration) error
}

// Option customizes a Rewriter.
type Option func(*Rewriter)

// WithPredicate replaces the default situational predicate.
func WithPredicate(p Predicate) Option {
	return func(r *Rewriter) { r.predicate = p }
}

// WithCache shares an existing cache.
func WithCache(c *Cache) Option {
	return func(r *Rewriter) { r.cache = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Rewriter) { r.logger = l }
}

// WithMetrics records attempts and cache lookups on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Rewriter) { r.metrics = m }
}

// WithJournal appends every rewrite outcome to repo.
func WithJournal(repo store.EventRepo) Option {
	return func(r *Rewriter) { r.journal = repo }
}

// New creates a Rewriter. With no engines every call returns the
// fallback items. A nil vocabulary selects DefaultVocabulary.
func New(engines []llm.Engine, vocab *Vocabulary, cfg Config, opts ...Option) *Rewriter {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	r := &Rewriter{
		engines: engines,
		vocab:   vocab,
		config:  cfg,
		logger:  zap.NewNop(),
		sleep:   llm.SleepContext,
	}
	for _, o := range opts {
		o(r)
	}
	if r.predicate == nil {
		r.predicate = Situational(vocab)
	}
	if r.cache == nil {
		r.cache = NewCache()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Engines returns the engine names in attempt order.
func (r *Rewriter) Engines() []string {
	names := make([]string, len(r.engines))
	for i, e := range r.engines {
		names[i] = e.Name
	}
	return names
}

// Cache returns the rewriter's cache.
func (r *Rewriter) Cache() *Cache { return r.cache }

// Invalidate drops cached outcomes for one session.
func (r *Rewriter) Invalidate(session string) { r.cache.Invalidate(session) }

// Rewrite returns len(in.Canonical) items. It never fails: when every
// attempt is rejected or errors out, or ctx ends, the items are the
// fallback-patched canonical texts and Meta.Accepted is false.
func (r *Rewriter) Rewrite(ctx context.Context, in Input) Result {
	n := len(in.Canonical)
	if n == 0 {
		return Result{Items: []string{}, Meta: Meta{Accepted: true, Reason: "nothing to rewrite"}}
	}

	if in.Purpose == "" {
		in.Purpose = "rewrite"
	}

	if !in.ForceRefresh {
		if cached, ok := r.cache.Get(in.SessionID, in.Instruction, n); ok {
			r.metrics.RecordCache(true)
			r.record(ctx, in, cached, true)
			return cached
		}
		r.metrics.RecordCache(false)
	}

	ctx = llm.WithPurpose(llm.WithSession(ctx, in.SessionID), in.Purpose)

	meta := Meta{Reason: reasonNotAttempted}
	total := 2 * len(r.engines)
	attempt := 0

loop:
	for _, e := range r.engines {
		for _, strict := range []bool{false, true} {
			if err := ctx.Err(); err != nil {
				meta.Reason = "error: " + err.Error()
				break loop
			}
			attempt++
			meta.Engine = e.Name

			items, err := r.attempt(ctx, e, in.Instruction, n, strict)
			if err == nil {
				res := Result{
					Items: items,
					Meta: Meta{
						Engine:   e.Name,
						Accepted: true,
						Reason:   fmt.Sprintf("scenario-ok (strict=%t)", strict),
					},
				}
				r.cache.Put(in.SessionID, in.Instruction, n, res)
				r.metrics.RecordRewrite(true)
				r.record(ctx, in, res, false)
				return res
			}

			var verr *validationError
			if errors.As(err, &verr) {
				meta.Reason = verr.Error()
			} else {
				meta.Reason = "error: " + err.Error()
			}
			r.logger.Debug("rewrite attempt rejected",
				zap.String("engine", e.Name),
				zap.Bool("strict", strict),
				zap.String("reason", meta.Reason),
			)

			if attempt == total {
				break loop
			}
			if r.sleep(ctx, r.backoff(err)) != nil {
				break loop
			}
		}
	}

	res := Result{
		Items: Fallback(in.Canonical, r.vocab, r.predicate),
		Meta:  meta,
	}
	// A cancelled run did not exhaust the engines; the next caller with a
	// live context must try again.
	if ctx.Err() == nil {
		r.cache.Put(in.SessionID, in.Instruction, n, res)
	}
	r.metrics.RecordRewrite(false)
	if len(r.engines) > 0 {
		r.logger.Warn("rewrite exhausted, using fallback items",
			zap.String("purpose", in.Purpose),
			zap.String("engine", meta.Engine),
			zap.String("reason", meta.Reason),
		)
	}
	r.record(ctx, in, res, false)
	return res
}

// attempt makes one generation call and validates the batch.
func (r *Rewriter) attempt(ctx context.Context, e llm.Engine, instruction string, n int, strict bool) ([]string, error) {
	start := time.Now()

	actx := ctx
	if r.config.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, r.config.AttemptTimeout)
		defer cancel()
	}

	resp, err := e.Provider.Generate(actx, buildRequest(r.vocab, instruction, n, strict))
	if err != nil {
		r.metrics.RecordAttempt(e.Name, strict, metrics.OutcomeError, time.Since(start))
		return nil, err
	}

	lines := Filter(Normalize(resp.Text, r.vocab), r.predicate)
	if len(lines) != n {
		r.metrics.RecordAttempt(e.Name, strict, metrics.OutcomeRejected, time.Since(start))
		return nil, &validationError{got: len(lines), strict: strict}
	}

	r.metrics.RecordAttempt(e.Name, strict, metrics.OutcomeAccepted, time.Since(start))
	return lines, nil
}

// backoff returns the pause before the next attempt. A rate limit with a
// longer retry-after is honored up to MaxBackoff.
func (r *Rewriter) backoff(err error) time.Duration {
	wait := r.config.Backoff
	var rl *llm.ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > wait {
		wait = rl.RetryAfter
		if r.config.MaxBackoff > 0 && wait > r.config.MaxBackoff {
			wait = r.config.MaxBackoff
		}
	}
	return wait
}

func (r *Rewriter) record(ctx context.Context, in Input, res Result, cached bool) {
	if r.journal == nil {
		return
	}
	err := r.journal.AppendRewrite(context.WithoutCancel(ctx), store.RewriteEventData{
		SessionID: in.SessionID,
		Purpose:   in.Purpose,
		Expected:  len(in.Canonical),
		Accepted:  res.Meta.Accepted,
		Engine:    res.Meta.Engine,
		Reason:    res.Meta.Reason,
		Cached:    cached,
	})
	if err != nil {
		r.logger.Warn("failed to journal rewrite", zap.Error(err))
	}
}
