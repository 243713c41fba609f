package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects how a question is asked and evaluated.
type Kind string

const (
	KindCloze        Kind = "cloze"
	KindWordMatch    Kind = "word_match"
	KindTokenReorder Kind = "token_reorder"
)

// Kinds lists every supported kind in menu order.
var Kinds = []Kind{KindWordMatch, KindCloze, KindTokenReorder}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindCloze, KindWordMatch, KindTokenReorder:
		return true
	}
	return false
}

// MultipleChoice reports whether questions of this kind carry options.
func (k Kind) MultipleChoice() bool {
	return k == KindCloze || k == KindWordMatch
}

// DisplayName returns a human-friendly label.
func (k Kind) DisplayName() string {
	switch k {
	case KindCloze:
		return "Fill the blank"
	case KindWordMatch:
		return "Word match"
	case KindTokenReorder:
		return "Build the sentence"
	}
	return string(k)
}

// ParseKind converts a user-supplied name into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !k.Valid() {
		return "", fmt.Errorf("unknown question kind %q: want cloze, word_match or token_reorder", s)
	}
	return k, nil
}

// Blank marks the removed word in a cloze prompt.
const Blank = "____"

// DefaultOptionCount is the number of options on a multiple-choice question.
const DefaultOptionCount = 4

// Question is one quiz question, owned by a Controller for the lifetime of a
// session.
type Question struct {
	Kind Kind

	// Prompt is the display text. Cloze prompts contain Blank.
	Prompt string

	// PromptNote is supplementary text for the prompt: the sentence
	// translation for cloze, the romanization for word match.
	PromptNote string

	// Options and CorrectIndex are set for multiple-choice kinds.
	Options      []string
	CorrectIndex int

	// Aux runs parallel to Options with per-option gloss text. May be nil.
	Aux []string

	// Tokens holds the target sentence fragments in order; their
	// concatenation is the sentence. Set for KindTokenReorder only.
	Tokens []string

	// Bank is the shuffled display order of Tokens: Bank[pos] is the index
	// into Tokens shown at position pos.
	Bank []int

	// Explanation is shown after the question is answered correctly.
	Explanation string

	// ItemID is the ID of the source item this question was built from.
	ItemID string
}

// Answer returns the text of the correct answer.
func (q *Question) Answer() string {
	if q.Kind == KindTokenReorder {
		return strings.Join(q.Tokens, "")
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// AnswerAux returns the gloss attached to the correct option, if any.
func (q *Question) AnswerAux() string {
	if q.Kind == KindTokenReorder || q.CorrectIndex >= len(q.Aux) || q.CorrectIndex < 0 {
		return ""
	}
	return q.Aux[q.CorrectIndex]
}

// BankToken returns the token displayed at bank position pos.
func (q *Question) BankToken(pos int) string {
	if pos < 0 || pos >= len(q.Bank) {
		return ""
	}
	return q.Tokens[q.Bank[pos]]
}

// Validate checks the structural invariants the controller relies on.
func (q *Question) Validate() error {
	if q == nil {
		return errors.New("question is nil")
	}
	if !q.Kind.Valid() {
		return fmt.Errorf("invalid kind %q", q.Kind)
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return errors.New("prompt is empty")
	}

	if q.Kind.MultipleChoice() {
		if len(q.Options) == 0 {
			return errors.New("no options")
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("correct index %d out of range [0,%d)", q.CorrectIndex, len(q.Options))
		}
		if q.Aux != nil && len(q.Aux) != len(q.Options) {
			return fmt.Errorf("aux has %d entries for %d options", len(q.Aux), len(q.Options))
		}
		return nil
	}

	if len(q.Tokens) == 0 {
		return errors.New("no tokens")
	}
	if len(q.Bank) != len(q.Tokens) {
		return fmt.Errorf("bank has %d entries for %d tokens", len(q.Bank), len(q.Tokens))
	}
	seen := make([]bool, len(q.Tokens))
	for _, t := range q.Bank {
		if t < 0 || t >= len(q.Tokens) || seen[t] {
			return errors.New("bank is not a permutation of tokens")
		}
		seen[t] = true
	}
	return nil
}
