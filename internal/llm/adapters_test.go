package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
)

const twoLines = "Before bed, do your thoughts spiral about little things?\nAt work, do small hassles set you on edge?"

// upstream is a canned HTTP answer plus a record of what the adapter sent.
type upstream struct {
	status int
	header map[string]string
	body   any

	req  *http.Request
	sent map[string]any
}

func (u *upstream) serve(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		u.req = r
		_ = json.Unmarshal(raw, &u.sent)

		for k, v := range u.header {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "application/json")
		if u.status != 0 {
			w.WriteHeader(u.status)
		}
		_ = json.NewEncoder(w).Encode(u.body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// adapter describes how to talk to one vendor's fake.
type adapter struct {
	name  string
	build func(t *testing.T, url string) Provider
	ok    func(text string, truncated bool) any
	fail  func(status int) any
}

var adapters = []adapter{
	{
		name: "openai",
		build: func(t *testing.T, url string) Provider {
			p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: url + "/v1"})
			if err != nil {
				t.Fatal(err)
			}
			return p
		},
		ok: func(text string, truncated bool) any {
			finish := "stop"
			if truncated {
				finish = "length"
			}
			return map[string]any{
				"id": "chatcmpl-1", "object": "chat.completion", "model": "gpt-4o-mini-2024-07-18",
				"choices": []any{map[string]any{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": text},
					"finish_reason": finish,
				}},
				"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
			}
		},
		fail: func(status int) any {
			return map[string]any{"error": map[string]any{"type": "error", "message": http.StatusText(status)}}
		},
	},
	{
		name: "anthropic",
		build: func(t *testing.T, url string) Provider {
			p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"}, option.WithBaseURL(url))
			if err != nil {
				t.Fatal(err)
			}
			return p
		},
		ok: func(text string, truncated bool) any {
			stop := "end_turn"
			if truncated {
				stop = "max_tokens"
			}
			content := []any{}
			if text != "" {
				content = append(content, map[string]any{"type": "text", "text": text})
			}
			return map[string]any{
				"id": "msg_1", "type": "message", "role": "assistant",
				"model":       "claude-haiku-4-5-20251001",
				"content":     content,
				"stop_reason": stop,
				"usage":       map[string]any{"input_tokens": 40, "output_tokens": 25},
			}
		},
		fail: func(status int) any {
			return map[string]any{"type": "error", "error": map[string]any{"type": "api_error", "message": http.StatusText(status)}}
		},
	},
	{
		name: "gemini",
		build: func(t *testing.T, url string) Provider {
			p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "test-key", Model: "gemini-flash", BaseURL: url})
			if err != nil {
				t.Fatal(err)
			}
			return p
		},
		ok: func(text string, truncated bool) any {
			finish := "STOP"
			if truncated {
				finish = "MAX_TOKENS"
			}
			parts := []any{}
			if text != "" {
				parts = append(parts, map[string]any{"text": text})
			}
			return map[string]any{
				"candidates": []any{map[string]any{
					"content":      map[string]any{"role": "model", "parts": parts},
					"finishReason": finish,
				}},
				"usageMetadata": map[string]any{"promptTokenCount": 40, "candidatesTokenCount": 25, "totalTokenCount": 65},
				"modelVersion":  "gemini-2.0-flash",
			}
		},
		fail: func(status int) any {
			return map[string]any{"error": map[string]any{"code": status, "message": http.StatusText(status), "status": "ERROR"}}
		},
	},
}

func rewriteRequest() Request {
	return Request{
		System:      "You convert screening items into situational questions.",
		Messages:    []Message{{Role: RoleUser, Content: "Rewrite 2 items."}},
		MaxTokens:   600,
		Temperature: 0.7,
	}
}

func TestAdapters_Success(t *testing.T) {
	for _, a := range adapters {
		t.Run(a.name, func(t *testing.T) {
			up := &upstream{body: a.ok(twoLines, false)}
			p := a.build(t, up.serve(t))

			resp, err := p.Generate(context.Background(), rewriteRequest())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Text != twoLines {
				t.Fatalf("text = %q", resp.Text)
			}
			if resp.StopReason != StopEnd {
				t.Fatalf("stop = %q, want %q", resp.StopReason, StopEnd)
			}
			if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 || resp.Usage.TotalTokens != 65 {
				t.Fatalf("usage = %+v", resp.Usage)
			}
			if resp.Model == "" {
				t.Fatal("expected serving model to be reported")
			}
			if !strings.Contains(mustJSON(t, up.sent), "situational questions") {
				t.Fatalf("system prompt not sent: %v", up.sent)
			}
		})
	}
}

func TestAdapters_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindAuth},
		{http.StatusTooManyRequests, KindRateLimit},
		{http.StatusInternalServerError, KindUnavailable},
		{http.StatusServiceUnavailable, KindUnavailable},
	}
	for _, a := range adapters {
		for _, tt := range tests {
			t.Run(a.name+"/"+http.StatusText(tt.status), func(t *testing.T) {
				up := &upstream{status: tt.status, body: a.fail(tt.status)}
				p := a.build(t, up.serve(t))

				_, err := p.Generate(context.Background(), rewriteRequest())
				if got := KindOf(err); got != tt.kind {
					t.Fatalf("kind = %q, want %q (err: %v)", got, tt.kind, err)
				}
			})
		}
	}
}

func TestAdapters_BlankOutput(t *testing.T) {
	for _, a := range adapters {
		t.Run(a.name, func(t *testing.T) {
			up := &upstream{body: a.ok("", false)}
			p := a.build(t, up.serve(t))

			_, err := p.Generate(context.Background(), rewriteRequest())
			if KindOf(err) != KindInvalid {
				t.Fatalf("expected invalid response, got %v", err)
			}
		})
	}
}

func TestAdapters_TruncatedBlankOutput(t *testing.T) {
	for _, a := range adapters {
		t.Run(a.name, func(t *testing.T) {
			up := &upstream{body: a.ok("", true)}
			p := a.build(t, up.serve(t))

			_, err := p.Generate(context.Background(), rewriteRequest())
			var mt *ErrMaxTokensExceeded
			if !errors.As(err, &mt) {
				t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
			}
		})
	}
}

func TestAdapters_TruncatedTextIsKept(t *testing.T) {
	for _, a := range adapters {
		t.Run(a.name, func(t *testing.T) {
			up := &upstream{body: a.ok("Before bed, do your thoughts", true)}
			p := a.build(t, up.serve(t))

			resp, err := p.Generate(context.Background(), rewriteRequest())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StopReason != StopMaxTokens {
				t.Fatalf("stop = %q", resp.StopReason)
			}
		})
	}
}

func TestAdapters_CancelledContext(t *testing.T) {
	for _, a := range adapters {
		t.Run(a.name, func(t *testing.T) {
			up := &upstream{body: a.ok(twoLines, false)}
			p := a.build(t, up.serve(t))

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := p.Generate(ctx, rewriteRequest())
			if KindOf(err) != KindCanceled {
				t.Fatalf("expected canceled, got %v", err)
			}
		})
	}
}

func TestOpenAI_RequestShape(t *testing.T) {
	up := &upstream{body: adapters[0].ok("ok", false)}
	p := adapters[0].build(t, up.serve(t))

	if _, err := p.Generate(context.Background(), rewriteRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msgs, _ := up.sent["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system + user messages, got %v", up.sent["messages"])
	}
	if role := msgs[0].(map[string]any)["role"]; role != "system" {
		t.Fatalf("first role = %v", role)
	}
	if temp, _ := up.sent["temperature"].(float64); temp < 0.69 || temp > 0.71 {
		t.Fatalf("temperature = %v", up.sent["temperature"])
	}
	if up.sent["max_completion_tokens"] != float64(600) {
		t.Fatalf("max tokens = %v", up.sent["max_completion_tokens"])
	}
	if got := up.req.Header.Get("Authorization"); got != "Bearer test-key" {
		t.Fatalf("authorization = %q", got)
	}
}

func TestAnthropic_RetryAfterHeader(t *testing.T) {
	a := adapters[1]
	up := &upstream{
		status: http.StatusTooManyRequests,
		header: map[string]string{"Retry-After": "3"},
		body:   a.fail(http.StatusTooManyRequests),
	}
	p := a.build(t, up.serve(t))

	_, err := p.Generate(context.Background(), rewriteRequest())
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
	if rl.RetryAfter != 3*time.Second {
		t.Fatalf("RetryAfter = %s, want 3s", rl.RetryAfter)
	}
}

func TestAnthropic_TemperatureOmittedWhenZero(t *testing.T) {
	a := adapters[1]
	up := &upstream{body: a.ok("ok", false)}
	p := a.build(t, up.serve(t))

	req := rewriteRequest()
	req.Temperature = 0
	if _, err := p.Generate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := up.sent["temperature"]; ok {
		t.Fatalf("temperature should be omitted: %v", up.sent)
	}
	if up.sent["model"] != "claude-haiku-4-5-20251001" {
		t.Fatalf("friendly name not resolved: %v", up.sent["model"])
	}
}

func TestOpenRouter_AttributionHeaders(t *testing.T) {
	up := &upstream{body: adapters[0].ok("ok", false)}
	url := up.serve(t)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku", BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "anthropic/claude-3-haiku" {
		t.Fatalf("vendor-qualified model should pass through, got %q", p.ModelID())
	}
	if _, err := p.Generate(context.Background(), rewriteRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.req.Header.Get("X-Title") != openRouterTitle || up.req.Header.Get("HTTP-Referer") != openRouterReferer {
		t.Fatalf("missing attribution headers: %v", up.req.Header)
	}
	if up.sent["model"] != "anthropic/claude-3-haiku" {
		t.Fatalf("model = %v", up.sent["model"])
	}
}

func TestConstructors_RequireKey(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"}); err == nil {
		t.Error("openai: expected error")
	}
	if _, err := NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"}); err == nil {
		t.Error("anthropic: expected error")
	}
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{Model: "gemini-flash"}); err == nil {
		t.Error("gemini: expected error")
	}
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "openai/gpt-4o-mini"}); err == nil {
		t.Error("openrouter: expected error")
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		models map[string]string
		in     string
		want   string
	}{
		{openaiModels, "gpt-35", "gpt-3.5-turbo"},
		{anthropicModels, "claude-sonnet", "claude-sonnet-4-20250514"},
		{geminiModels, "gemini-flash-lite", "gemini-2.0-flash-lite"},
		{geminiModels, "gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.in, tt.models); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
