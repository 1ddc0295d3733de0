package rewrite

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/abhisek/mindcheck/internal/llm"
	"github.com/abhisek/mindcheck/internal/metrics"
	"github.com/abhisek/mindcheck/internal/store"
)

var canonical = []string{
	"Feeling nervous, anxious, or on edge?",
	"Not being able to stop or control worrying?",
	"Trouble relaxing?",
}

const goodBatch = `1. When a deadline nears at work, do you feel on edge?
2) Before bed, do worries keep looping in your head?
- On your commute, is it hard to unwind?`

func testConfig() Config {
	return Config{
		Backoff:        time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		AttemptTimeout: time.Second,
	}
}

func engine(name string, p llm.Provider) llm.Engine {
	return llm.Engine{Name: name, Provider: p}
}

func input() Input {
	return Input{
		SessionID:   "s1",
		Purpose:     "gad7",
		Instruction: "Rewrite these anxiety items.",
		Canonical:   canonical,
	}
}

func TestRewrite_AcceptsExactCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: goodBatch})
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig())

	res := r.Rewrite(context.Background(), input())

	if !res.Meta.Accepted {
		t.Fatalf("expected accepted, got reason %q", res.Meta.Reason)
	}
	if res.Meta.Reason != "scenario-ok (strict=false)" {
		t.Fatalf("unexpected reason: %q", res.Meta.Reason)
	}
	if res.Meta.Engine != "mock:a" {
		t.Fatalf("unexpected engine: %q", res.Meta.Engine)
	}
	want := []string{
		"When a deadline nears at work, do you feel on edge?",
		"Before bed, do worries keep looping in your head?",
		"On your commute, is it hard to unwind?",
	}
	if strings.Join(res.Items, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected items: %q", res.Items)
	}
}

func TestRewrite_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: goodBatch})
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig())
	r.Rewrite(context.Background(), input())

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Temperature != 0.7 || req.MaxTokens != 600 {
		t.Fatalf("unexpected sampling params: temp=%v max=%d", req.Temperature, req.MaxTokens)
	}
	msg := req.Messages[0].Content
	if !strings.Contains(msg, "Return exactly 3 lines. No bullets, no numbering, no extra commentary.") {
		t.Fatalf("missing count instruction: %s", msg)
	}
	if !strings.Contains(msg, "Rewrite these anxiety items.") {
		t.Fatalf("missing task text: %s", msg)
	}
}

func TestRewrite_ShortfallIsFullFailure(t *testing.T) {
	two := "When at work, do you feel tense?\nBefore bed, do you keep worrying?"
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: two},
		llm.MockResponse{Text: two},
	)
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig())

	res := r.Rewrite(context.Background(), input())

	if res.Meta.Accepted {
		t.Fatal("expected fallback")
	}
	if res.Meta.Reason != "got 2 valid scenario lines (strict=true)" {
		t.Fatalf("unexpected reason: %q", res.Meta.Reason)
	}
	if len(res.Items) != len(canonical) {
		t.Fatalf("expected %d items, got %d", len(canonical), len(res.Items))
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRewrite_SurplusIsFullFailure(t *testing.T) {
	four := goodBatch + "\nWith friends, do you feel restless?"
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: four},
		llm.MockResponse{Text: four},
	)
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig())

	res := r.Rewrite(context.Background(), input())

	if res.Meta.Accepted {
		t.Fatal("expected fallback")
	}
	if res.Meta.Reason != "got 4 valid scenario lines (strict=true)" {
		t.Fatalf("unexpected reason: %q", res.Meta.Reason)
	}
}

func TestRewrite_StrictModeSecondAttempt(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Do you feel nervous?\nDo you worry a lot?\nIs it hard to relax?"},
		llm.MockResponse{Text: goodBatch},
	)
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig())

	res := r.Rewrite(context.Background(), input())

	if res.Meta.Reason != "scenario-ok (strict=true)" {
		t.Fatalf("unexpected reason: %q", res.Meta.Reason)
	}
	strictRule := DefaultVocabulary().StrictRule
	if strings.Contains(mock.Calls[0].Messages[0].Content, strictRule) {
		t.Fatal("normal attempt should not carry the strict rule")
	}
	if !strings.Contains(mock.Calls[1].Messages[0].Content, strictRule) {
		t.Fatal("strict attempt should carry the strict rule")
	}
}

func TestRewrite_FallsThroughEngines(t *testing.T) {
	first := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	second := llm.NewMockProvider(llm.MockResponse{Text: goodBatch})
	r := New([]llm.Engine{engine("mock:a", first), engine("mock:b", second)}, nil, testConfig())

	res := r.Rewrite(context.Background(), input())

	if !res.Meta.Accepted || res.Meta.Engine != "mock:b" {
		t.Fatalf("expected mock:b accepted, got %+v", res.Meta)
	}
	if first.CallCount() != 2 || second.CallCount() != 1 {
		t.Fatalf("unexpected calls: first=%d second=%d", first.CallCount(), second.CallCount())
	}
}

func TestRewrite_ExhaustionKeepsLastAttempt(t *testing.T) {
	first := llm.NewMockProvider(
		llm.MockResponse{Text: "nothing useful here at all"},
		llm.MockResponse{Text: "nothing useful here at all"},
	)
	second := llm.NewMockProvider(
		llm.MockResponse{Err: errors.New("boom")},
		llm.MockResponse{Err: errors.New("kaput")},
	)
	r := New([]llm.Engine{engine("mock:a", first), engine("mock:b", second)}, nil, testConfig())

	res := r.Rewrite(context.Background(), input())

	if res.Meta.Accepted {
		t.Fatal("expected fallback")
	}
	if res.Meta.Engine != "mock:b" || res.Meta.Reason != "error: kaput" {
		t.Fatalf("unexpected meta: %+v", res.Meta)
	}
	if res.Items[0] != "When you think about your day, Feeling nervous, anxious, or on edge?" {
		t.Fatalf("unexpected fallback item: %q", res.Items[0])
	}
}

func TestRewrite_NoEngines(t *testing.T) {
	r := New(nil, nil, testConfig())

	res := r.Rewrite(context.Background(), input())

	if res.Meta.Accepted || res.Meta.Reason != "not attempted" || res.Meta.Engine != "" {
		t.Fatalf("unexpected meta: %+v", res.Meta)
	}
	p := Situational(DefaultVocabulary())
	for i, item := range res.Items {
		if !p(item) {
			t.Fatalf("fallback item %d does not pass predicate: %q", i, item)
		}
	}
}

func TestRewrite_EmptyInput(t *testing.T) {
	mock := llm.NewMockProvider()
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig())

	in := input()
	in.Canonical = nil
	res := r.Rewrite(context.Background(), in)

	if len(res.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(res.Items))
	}
	if mock.CallCount() != 0 {
		t.Fatalf("expected no calls, got %d", mock.CallCount())
	}
}

func TestRewrite_CacheHitSkipsGeneration(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: goodBatch})
	m := metrics.New()
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig(), WithMetrics(m))

	first := r.Rewrite(context.Background(), input())
	second := r.Rewrite(context.Background(), input())

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if strings.Join(first.Items, "|") != strings.Join(second.Items, "|") || first.Meta != second.Meta {
		t.Fatalf("cached result differs: %+v vs %+v", first, second)
	}
	if got := testutil.ToFloat64(m.CacheHitsTotal); got != 1 {
		t.Fatalf("expected 1 cache hit, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheMissesTotal); got != 1 {
		t.Fatalf("expected 1 cache miss, got %v", got)
	}
}

func TestRewrite_CachedResultIsCopy(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: goodBatch})
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig())

	first := r.Rewrite(context.Background(), input())
	first.Items[0] = "mutated"
	second := r.Rewrite(context.Background(), input())

	if second.Items[0] == "mutated" {
		t.Fatal("cache returned a shared slice")
	}
}

func TestRewrite_ExhaustionIsCached(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: errors.New("boom")},
		llm.MockResponse{Err: errors.New("boom")},
	)
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig())

	r.Rewrite(context.Background(), input())
	res := r.Rewrite(context.Background(), input())

	if res.Meta.Accepted {
		t.Fatal("expected cached fallback")
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRewrite_ForceRefresh(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: goodBatch},
		llm.MockResponse{Text: strings.ReplaceAll(goodBatch, "edge", "alert")},
	)
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig())

	r.Rewrite(context.Background(), input())
	in := input()
	in.ForceRefresh = true
	refreshed := r.Rewrite(context.Background(), in)

	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
	if !strings.Contains(refreshed.Items[0], "alert") {
		t.Fatalf("expected refreshed items, got %q", refreshed.Items[0])
	}

	// The refresh overwrote the cache entry.
	again := r.Rewrite(context.Background(), input())
	if again.Items[0] != refreshed.Items[0] {
		t.Fatalf("expected refreshed item cached, got %q", again.Items[0])
	}
}

func TestRewrite_SessionScopedCache(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: goodBatch},
		llm.MockResponse{Text: goodBatch},
		llm.MockResponse{Text: goodBatch},
	)
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig())

	r.Rewrite(context.Background(), input())
	other := input()
	other.SessionID = "s2"
	r.Rewrite(context.Background(), other)
	if mock.CallCount() != 2 {
		t.Fatalf("expected a call per session, got %d", mock.CallCount())
	}

	r.Invalidate("s1")
	if r.Cache().Len() != 1 {
		t.Fatalf("expected 1 entry after invalidate, got %d", r.Cache().Len())
	}
	r.Rewrite(context.Background(), input())
	if mock.CallCount() != 3 {
		t.Fatalf("expected regeneration after invalidate, got %d calls", mock.CallCount())
	}
}

func TestRewrite_CancelledContextFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: goodBatch})
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := r.Rewrite(ctx, input())

	if res.Meta.Accepted {
		t.Fatal("expected fallback")
	}
	if res.Meta.Reason != "error: context canceled" {
		t.Fatalf("unexpected reason: %q", res.Meta.Reason)
	}
	if mock.CallCount() != 0 {
		t.Fatalf("expected no calls, got %d", mock.CallCount())
	}
	if len(res.Items) != len(canonical) {
		t.Fatalf("expected %d items, got %d", len(canonical), len(res.Items))
	}
}

func TestRewrite_CancelledRunIsNotCached(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: goodBatch})
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Rewrite(ctx, input())
	if r.Cache().Len() != 0 {
		t.Fatalf("cancelled run left %d cache entries", r.Cache().Len())
	}

	res := r.Rewrite(context.Background(), input())
	if mock.CallCount() != 1 {
		t.Fatalf("expected a generation call after the cancelled run, got %d", mock.CallCount())
	}
	if !res.Meta.Accepted {
		t.Fatalf("expected accepted rewrite, got %+v", res.Meta)
	}
}

// cancelOnCall cancels the caller's context from inside the first call.
type cancelOnCall struct {
	cancel context.CancelFunc
}

func (c cancelOnCall) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	c.cancel()
	<-ctx.Done()
	return nil, ctx.Err()
}

func (cancelOnCall) ModelID() string { return "cancel" }

func TestRewrite_CancelMidAttemptIsNotCached(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := New([]llm.Engine{engine("cancel", cancelOnCall{cancel: cancel})}, nil, testConfig())

	res := r.Rewrite(ctx, input())
	if res.Meta.Accepted {
		t.Fatal("expected fallback")
	}
	if r.Cache().Len() != 0 {
		t.Fatalf("interrupted run left %d cache entries", r.Cache().Len())
	}
}

// blockingProvider never answers until its context ends.
type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestRewrite_AttemptTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.AttemptTimeout = 10 * time.Millisecond
	r := New([]llm.Engine{engine("slow", blockingProvider{})}, nil, cfg)

	start := time.Now()
	res := r.Rewrite(context.Background(), input())

	if res.Meta.Reason != "error: context deadline exceeded" {
		t.Fatalf("unexpected reason: %q", res.Meta.Reason)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("attempt timeout not enforced")
	}
}

func TestRewrite_BackoffHonorsRetryAfter(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrRateLimit{RetryAfter: time.Minute, Err: errors.New("slow down")}},
		llm.MockResponse{Err: errors.New("boom")},
	)
	cfg := Config{Backoff: 200 * time.Millisecond, MaxBackoff: 2 * time.Second, AttemptTimeout: time.Second}
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, cfg)

	var waits []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	r.Rewrite(context.Background(), input())

	// One pause between the two attempts, none after the last.
	if len(waits) != 1 {
		t.Fatalf("expected 1 pause, got %v", waits)
	}
	if waits[0] != 2*time.Second {
		t.Fatalf("expected capped retry-after, got %v", waits[0])
	}
}

func TestRewrite_FixedBackoffBetweenAttempts(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "nope"},
		llm.MockResponse{Text: "nope"},
		llm.MockResponse{Text: "nope"},
		llm.MockResponse{Text: "nope"},
	)
	cfg := Config{Backoff: 200 * time.Millisecond, MaxBackoff: 2 * time.Second}
	r := New([]llm.Engine{engine("mock:a", mock), engine("mock:b", mock)}, nil, cfg)

	var waits []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	r.Rewrite(context.Background(), input())

	if len(waits) != 3 {
		t.Fatalf("expected 3 pauses for 4 attempts, got %v", waits)
	}
	for _, w := range waits {
		if w != 200*time.Millisecond {
			t.Fatalf("unexpected pause: %v", w)
		}
	}
}

func TestRewrite_CustomPredicate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "alpha line one\nalpha line two\nalpha line three"})
	p := func(line string) bool { return strings.HasPrefix(line, "alpha") }
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig(), WithPredicate(p))

	res := r.Rewrite(context.Background(), input())

	if !res.Meta.Accepted {
		t.Fatalf("expected accepted, got %+v", res.Meta)
	}
}

func TestRewrite_Journal(t *testing.T) {
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	mock := llm.NewMockProvider(llm.MockResponse{Text: goodBatch})
	r := New([]llm.Engine{engine("mock:a", mock)}, nil, testConfig(), WithJournal(s.EventRepo()))

	r.Rewrite(context.Background(), input())
	r.Rewrite(context.Background(), input())

	events, err := s.EventRepo().Rewrites(context.Background(), store.QueryOpts{SessionID: "s1"})
	if err != nil {
		t.Fatalf("Rewrites() error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first.
	if !events[0].Cached || events[1].Cached {
		t.Fatalf("unexpected cached flags: %v %v", events[0].Cached, events[1].Cached)
	}
	if events[1].Purpose != "gad7" || events[1].Expected != 3 || !events[1].Accepted {
		t.Fatalf("unexpected event: %+v", events[1].RewriteEventData)
	}
}
