package questiongen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/phasa/internal/quiz"
)

const (
	maxPromptChars      = 300
	maxExplanationChars = 1000
	maxTokens           = 12
)

// StructuralValidator checks that required fields are present, within
// length limits, and match the requested kind.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(d *Draft, input Input) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	if !d.Kind.Valid() {
		return fail("unknown kind %q", d.Kind)
	}
	if input.Kind != "" && d.Kind != input.Kind {
		return fail("asked for %s, got %s", input.Kind, d.Kind)
	}
	if strings.TrimSpace(d.Prompt) == "" {
		return fail("prompt is empty")
	}
	if utf8.RuneCountInString(d.Prompt) > maxPromptChars {
		return fail("prompt exceeds %d characters", maxPromptChars)
	}
	if utf8.RuneCountInString(d.Explanation) > maxExplanationChars {
		return fail("explanation exceeds %d characters", maxExplanationChars)
	}

	if d.Kind.MultipleChoice() {
		if len(d.Options) != quiz.DefaultOptionCount {
			return fail("expected %d options, got %d", quiz.DefaultOptionCount, len(d.Options))
		}
		for i, o := range d.Options {
			if strings.TrimSpace(o) == "" {
				return fail("option %d is empty", i)
			}
		}
		if len(d.OptionNotes) != 0 && len(d.OptionNotes) != len(d.Options) {
			return fail("option_notes has %d entries for %d options", len(d.OptionNotes), len(d.Options))
		}
		return nil
	}

	if len(d.Tokens) < 2 || len(d.Tokens) > maxTokens {
		return fail("expected 2 to %d tokens, got %d", maxTokens, len(d.Tokens))
	}
	for i, t := range d.Tokens {
		if strings.TrimSpace(t) == "" {
			return fail("token %d is empty", i)
		}
	}
	return nil
}
