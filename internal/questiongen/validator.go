package questiongen

import (
	"fmt"

	"github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/vocab"
)

// Draft is a generated question before validation and shuffling. The
// correct option is always Options[0].
type Draft struct {
	Kind        quiz.Kind
	Prompt      string
	PromptNote  string
	Options     []string
	OptionNotes []string
	Tokens      []string
	Explanation string
}

// Input is what a draft was generated for.
type Input struct {
	Item vocab.Item
	Kind quiz.Kind

	// PriorPrompts are prompts already asked in this session.
	PriorPrompts []string
}

// Validator checks a generated draft.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for error messages and logging,
	// e.g. "structural", "options", "cloze".
	Name() string

	// Validate returns nil if the draft passes.
	Validate(d *Draft, input Input) *ValidationError
}

// ValidationError describes why a draft failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
