package questiongen

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/abhisek/phasa/internal/llm"
)

// Learner-facing messages for generation failures.
const (
	ReasonNotConfigured = "AI questions need an API key. Set PHASA_ANTHROPIC_API_KEY (or another provider key) and restart."
	ReasonTimeout       = "The question took too long to generate. Press r to try again."
	ReasonRateLimited   = "The AI service is busy right now. Wait a moment, then press r."
	ReasonBadOutput     = "The AI returned a question that could not be used. Press r to try again."
	ReasonUnreachable   = "Could not reach the AI service. Check your connection and press r."
	ReasonRejected      = "The AI service refused the request. Check your API key and model setting."
)

// reasonFor maps a generation error to a learner-facing message.
func reasonFor(err error) string {
	var (
		rateErr    *llm.ErrRateLimit
		rejectErr  *llm.ErrRejected
		invalidErr *llm.ErrInvalidResponse
		maxTokErr  *llm.ErrMaxTokensExceeded
		valErr     *ValidationError
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return ReasonNotConfigured
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &rateErr):
		return ReasonRateLimited
	case errors.As(err, &rejectErr):
		return ReasonRejected
	case errors.Is(err, errEmptyResponse),
		errors.As(err, &invalidErr),
		errors.As(err, &maxTokErr),
		errors.As(err, &valErr),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr):
		return ReasonBadOutput
	}
	return ReasonUnreachable
}
