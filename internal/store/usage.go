package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type usageRepo struct {
	db *sql.DB
}

func (r *usageRepo) ByEngine(ctx context.Context) ([]EngineUsage, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(
			"engine",
			"model",
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum("success"), "successes"),
			entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
			entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
			entsql.As(entsql.Avg("latency_ms"), "avg_latency_ms"),
		).
		From(entsql.Table(llmRequestsTable)).
		GroupBy("engine", "model").
		OrderBy("engine", "model").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query engine usage: %w", err)
	}
	defer rows.Close()

	var out []EngineUsage
	for rows.Next() {
		var (
			u         EngineUsage
			successes int
		)
		if err := rows.Scan(&u.Engine, &u.Model, &u.Calls, &successes,
			&u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan engine usage: %w", err)
		}
		u.Failures = u.Calls - successes
		out = append(out, u)
	}
	return out, rows.Err()
}
