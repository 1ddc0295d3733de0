package rewrite

import (
	"fmt"
	"strings"

	"github.com/abhisek/mindcheck/internal/llm"
)

// buildUserMessage assembles the style rules, few-shot examples and task
// text for one attempt. Strict mode appends the reinforced rule.
func buildUserMessage(v *Vocabulary, instruction string, n int, strict bool) string {
	var b strings.Builder

	b.WriteString(strings.Join(v.StyleRules, "\n"))
	if strict {
		b.WriteString("\n")
		b.WriteString(v.StrictRule)
	}

	if len(v.Examples) > 0 {
		b.WriteString("\n\nExamples (style only):\n- ")
		b.WriteString(strings.Join(v.Examples, "\n- "))
	}

	b.WriteString("\n\nTask:\n")
	b.WriteString(instruction)
	fmt.Fprintf(&b, "\nReturn exactly %d lines. No bullets, no numbering, no extra commentary.", n)

	return b.String()
}

// buildRequest returns the generation request for one attempt.
func buildRequest(v *Vocabulary, instruction string, n int, strict bool) llm.Request {
	return llm.Request{
		System: v.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(v, instruction, n, strict)},
		},
		MaxTokens:   v.MaxTokens,
		Temperature: v.Temperature,
	}
}
