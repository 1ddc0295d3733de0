package llm

import (
	"context"
	"errors"
	"strings"
)

// Provider generates text from a prompt. One Provider talks to one model.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider sends requests to.
	ModelID() string
}

// Request is a single-turn (or short multi-turn) prompt.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64 // 0 leaves the provider default in place
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// StopReason is the provider's finish reason, normalized.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is the generated text plus accounting.
type Response struct {
	Text       string
	Usage      Usage
	Model      string // model that actually served the request
	StopReason StopReason
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Engine is a provider bound to a display name such as "openai:gpt-4o-mini".
// The rewriter tries engines in slice order.
type Engine struct {
	Name     string
	Provider Provider
}

// newResponse applies the rules every adapter shares: blank output is an
// invalid response, and blank output cut off at MaxTokens is reported as
// such.
func newResponse(provider, text string, stop StopReason, usage Usage, model string) (*Response, error) {
	if strings.TrimSpace(text) == "" {
		if stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: text}
		}
		return nil, &ErrInvalidResponse{Err: errors.New("no text content in " + provider + " response")}
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Text: text, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through so full IDs work too.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
