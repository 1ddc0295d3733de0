package store

import (
	"context"
	"time"
)

// QueryOpts configures journal queries with filtering and pagination.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	SessionID string // only rows for this session ("" = all)
}

// LLMRequestEventData captures the data for a single generation call.
type LLMRequestEventData struct {
	SessionID    string
	Engine       string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a journaled generation call.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// RewriteEventData captures the outcome of one Rewrite call.
type RewriteEventData struct {
	SessionID string
	Purpose   string
	Expected  int
	Accepted  bool
	Engine    string
	Reason    string
	Cached    bool
}

// RewriteEvent is a journaled rewrite outcome.
type RewriteEvent struct {
	Sequence  int64
	Timestamp time.Time
	RewriteEventData
}

// EventRepo provides append and read access to journal events.
type EventRepo interface {
	// AppendLLMRequest records a generation call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendRewrite records a rewrite outcome.
	AppendRewrite(ctx context.Context, data RewriteEventData) error

	// LLMRequests returns journaled calls, newest first.
	LLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// Rewrites returns journaled rewrite outcomes, newest first.
	Rewrites(ctx context.Context, opts QueryOpts) ([]RewriteEvent, error)
}

// EngineUsage aggregates the calls made to one engine.
type EngineUsage struct {
	Engine       string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// UsageRepo answers aggregate questions about the journal.
type UsageRepo interface {
	// ByEngine returns per-engine totals ordered by engine name.
	ByEngine(ctx context.Context) ([]EngineUsage, error)
}
