package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{context.Canceled, KindCanceled},
		{fmt.Errorf("send: %w", context.DeadlineExceeded), KindTimeout},
		{&ErrProviderUnavailable{Err: context.Canceled}, KindCanceled},
		{&ErrRateLimit{}, KindRateLimit},
		{&ErrAuth{}, KindAuth},
		{&ErrInvalidResponse{}, KindInvalid},
		{&ErrMaxTokensExceeded{}, KindMaxTokens},
		{&ErrProviderUnavailable{}, KindUnavailable},
		{errors.New("boom"), KindOther},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestFromStatus(t *testing.T) {
	cause := errors.New("upstream")

	err := fromStatus(http.StatusTooManyRequests, 2*time.Second, cause)
	var rl *ErrRateLimit
	if !errors.As(err, &rl) || rl.RetryAfter != 2*time.Second {
		t.Fatalf("429 -> %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause should stay reachable")
	}

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		if KindOf(fromStatus(status, 0, cause)) != KindAuth {
			t.Errorf("%d should be auth", status)
		}
	}
	for _, status := range []int{http.StatusBadRequest, http.StatusBadGateway, 0} {
		if KindOf(fromStatus(status, 0, cause)) != KindUnavailable {
			t.Errorf("%d should be unavailable", status)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	if got := (&ErrProviderUnavailable{}).Error(); got != "LLM provider unavailable" {
		t.Errorf("bare unavailable = %q", got)
	}
	if got := (&ErrRateLimit{RetryAfter: time.Second, Err: errors.New("429")}).Error(); got != "rate limited (retry after 1s): 429" {
		t.Errorf("rate limit = %q", got)
	}
}

func TestNewResponse(t *testing.T) {
	resp, err := newResponse("Test", "line", StopEnd, Usage{InputTokens: 2, OutputTokens: 3}, "m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 5 {
		t.Errorf("total = %d, want 5", resp.Usage.TotalTokens)
	}

	if _, err := newResponse("Test", "  \n", StopEnd, Usage{}, "m"); KindOf(err) != KindInvalid {
		t.Errorf("whitespace should be invalid, got %v", err)
	}
	if _, err := newResponse("Test", "", StopMaxTokens, Usage{}, "m"); KindOf(err) != KindMaxTokens {
		t.Errorf("blank truncation should be max tokens, got %v", err)
	}
}
