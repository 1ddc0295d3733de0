package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/mindcheck/internal/store"
)

// LoggingProvider is a decorator that records every generation call in the
// request journal and the structured log.
type LoggingProvider struct {
	inner     Provider
	engine    string
	eventRepo store.EventRepo
	logger    *zap.Logger
}

// WithLogging wraps a Provider with event logging. repo and logger may be
// nil.
func WithLogging(p Provider, engine string, repo store.EventRepo, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, engine: engine, eventRepo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latency := time.Since(start)

	data := store.LLMRequestEventData{
		SessionID: SessionFrom(ctx),
		Engine:    l.engine,
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}

	fields := []zap.Field{
		zap.String("engine", l.engine),
		zap.String("purpose", purpose),
		zap.Duration("latency", latency),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
	}
	if err != nil {
		kind := KindOf(err)
		data.ErrorMessage = string(kind) + ": " + err.Error()
		l.logger.Warn("generation failed", append(fields, zap.String("kind", string(kind)), zap.Error(err))...)
	} else {
		l.logger.Debug("generation ok", fields...)
	}

	// Journal the call but never fail the request over it.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
			l.logger.Warn("journal append failed", zap.Error(logErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
