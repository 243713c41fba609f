package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrNotConfigured is returned when no provider has an API key.
var ErrNotConfigured = errors.New("LLM provider not configured")

// ErrRateLimit reports an HTTP 429. RetryAfter is zero when the provider
// did not say how long to wait.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the reply was empty, not JSON, or did not match
// the requested schema. Content holds what the model sent.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return "unusable LLM reply: " + e.Err.Error()
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers network failures and 5xx replies.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return "LLM provider unavailable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRejected is a 4xx other than 408 and 429: a bad key, an unknown model
// or a malformed request. Retrying will not help.
type ErrRejected struct {
	Status int
	Err    error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("LLM provider rejected the request (HTTP %d): %v", e.Status, e.Err)
}

func (e *ErrRejected) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means generation stopped at the token limit.
// Content is the partial reply.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
	Limit   int
}

func (e *ErrMaxTokensExceeded) Error() string {
	if e.Limit <= 0 {
		return "LLM reply cut off at the token limit"
	}
	return fmt.Sprintf("LLM reply cut off at %d tokens", e.Limit)
}

// classify maps an SDK error onto the types above. status is the HTTP
// status when the SDK exposes one, zero otherwise.
func classify(status int, wait time.Duration, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: wait, Err: err}
	case status == 0, status == http.StatusRequestTimeout, status >= 500:
		return &ErrProviderUnavailable{Err: err}
	default:
		return &ErrRejected{Status: status, Err: err}
	}
}

// transient reports whether err is worth another attempt.
func transient(err error) bool {
	var (
		rl    *ErrRateLimit
		unavl *ErrProviderUnavailable
	)
	return errors.As(err, &rl) || errors.As(err, &unavl)
}

// retryAfter parses a Retry-After header in either delta-seconds or
// HTTP-date form.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}
