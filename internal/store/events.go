package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builder over database/sql.
type eventRepo struct {
	db  *sql.DB
	seq *sequence
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum := r.seq.Next()

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(llmRequestsTable).
		Columns("sequence", "created_at_ms", "session_id", "engine", "model", "purpose",
			"input_tokens", "output_tokens", "latency_ms", "success", "error_message").
		Values(seqNum, time.Now().UnixMilli(), data.SessionID, data.Engine, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, boolInt(data.Success), data.ErrorMessage).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendRewrite(ctx context.Context, data RewriteEventData) error {
	seqNum := r.seq.Next()

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(rewriteOutcomesTable).
		Columns("sequence", "created_at_ms", "session_id", "purpose", "expected",
			"accepted", "engine", "reason", "cached").
		Values(seqNum, time.Now().UnixMilli(), data.SessionID, data.Purpose, data.Expected,
			boolInt(data.Accepted), data.Engine, data.Reason, boolInt(data.Cached)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save rewrite event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "created_at_ms", "session_id", "engine", "model", "purpose",
			"input_tokens", "output_tokens", "latency_ms", "success", "error_message").
		From(entsql.Table(llmRequestsTable))
	applyOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		var (
			e       LLMRequestEvent
			created int64
			success int
		)
		if err := rows.Scan(&e.Sequence, &created, &e.SessionID, &e.Engine, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &success, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan LLM request event: %w", err)
		}
		e.Timestamp = time.UnixMilli(created)
		e.Success = success != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) Rewrites(ctx context.Context, opts QueryOpts) ([]RewriteEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "created_at_ms", "session_id", "purpose", "expected",
			"accepted", "engine", "reason", "cached").
		From(entsql.Table(rewriteOutcomesTable))
	applyOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rewrite events: %w", err)
	}
	defer rows.Close()

	var out []RewriteEvent
	for rows.Next() {
		var (
			e                RewriteEvent
			created          int64
			accepted, cached int
		)
		if err := rows.Scan(&e.Sequence, &created, &e.SessionID, &e.Purpose, &e.Expected,
			&accepted, &e.Engine, &e.Reason, &cached); err != nil {
			return nil, fmt.Errorf("scan rewrite event: %w", err)
		}
		e.Timestamp = time.UnixMilli(created)
		e.Accepted = accepted != 0
		e.Cached = cached != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// applyOpts adds the shared filter, ordering and limit to a selector.
func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.SessionID != "" {
		sel.Where(entsql.EQ("session_id", opts.SessionID))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
