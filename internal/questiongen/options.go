package questiongen

import (
	"strings"

	"github.com/abhisek/phasa/internal/quiz"
)

// OptionsValidator rejects multiple-choice drafts whose options cannot be
// told apart, and word-match drafts that do not ask about the requested
// word.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(d *Draft, input Input) *ValidationError {
	if !d.Kind.MultipleChoice() {
		return nil
	}

	seen := make(map[string]bool, len(d.Options))
	for _, o := range d.Options {
		k := strings.ToLower(strings.TrimSpace(o))
		if seen[k] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "duplicate option " + o,
				Retryable: true,
			}
		}
		seen[k] = true
	}

	if d.Kind == quiz.KindWordMatch && input.Item.Key() != "" && !strings.Contains(d.Prompt, input.Item.Key()) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "prompt does not mention " + input.Item.Key(),
			Retryable: true,
		}
	}
	return nil
}

// ClozeValidator checks that a cloze prompt has exactly one blank and that
// filling it with the correct option restores a sentence containing the
// target word.
type ClozeValidator struct{}

func (v *ClozeValidator) Name() string { return "cloze" }

func (v *ClozeValidator) Validate(d *Draft, input Input) *ValidationError {
	if d.Kind != quiz.KindCloze {
		return nil
	}
	if n := strings.Count(d.Prompt, quiz.Blank); n != 1 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "cloze prompt must contain exactly one blank",
			Retryable: true,
		}
	}
	filled := strings.Replace(d.Prompt, quiz.Blank, d.Options[0], 1)
	if key := input.Item.Key(); key != "" && !strings.Contains(filled, key) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "filled sentence does not contain " + key,
			Retryable: true,
		}
	}
	return nil
}
