package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrMissingCredential is returned by Config.Validate when an engine's
// provider has no API key configured.
var ErrMissingCredential = errors.New("missing API credential")

// ErrRateLimit means the provider answered 429. RetryAfter is zero when
// the provider gave no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrAuth means the credential was rejected (401/403).
type ErrAuth struct {
	Err error
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// ErrInvalidResponse means the provider answered without usable text.
type ErrInvalidResponse struct {
	Content string
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers 5xx answers and transport failures.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means generation stopped at MaxTokens before any
// text was produced.
type ErrMaxTokensExceeded struct {
	Content string
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrorKind is a coarse label for a generation failure, used for retry
// decisions, journal rows and log fields.
type ErrorKind string

const (
	KindNone        ErrorKind = ""
	KindCanceled    ErrorKind = "canceled"
	KindTimeout     ErrorKind = "timeout"
	KindRateLimit   ErrorKind = "rate_limit"
	KindAuth        ErrorKind = "auth"
	KindInvalid     ErrorKind = "invalid_response"
	KindMaxTokens   ErrorKind = "max_tokens"
	KindUnavailable ErrorKind = "unavailable"
	KindOther       ErrorKind = "other"
)

// KindOf classifies err. Context errors win over provider errors that
// wrap them.
func KindOf(err error) ErrorKind {
	var (
		rl      *ErrRateLimit
		auth    *ErrAuth
		invalid *ErrInvalidResponse
		maxTok  *ErrMaxTokensExceeded
		unavail *ErrProviderUnavailable
	)
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &rl):
		return KindRateLimit
	case errors.As(err, &auth):
		return KindAuth
	case errors.As(err, &invalid):
		return KindInvalid
	case errors.As(err, &maxTok):
		return KindMaxTokens
	case errors.As(err, &unavail):
		return KindUnavailable
	}
	return KindOther
}

// fromStatus turns an SDK error carrying an HTTP status into one of the
// typed errors above. Unknown statuses count as unavailable.
func fromStatus(status int, retryAfter time.Duration, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter, Err: err}
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return &ErrAuth{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
