package quiz

import "strings"

// Evaluator decides whether an attempt answers a question.
type Evaluator interface {
	Evaluate(q *Question, a *Attempt) bool
}

// EvaluatorFor returns the evaluator for questions of kind k.
func EvaluatorFor(k Kind) Evaluator {
	if k == KindTokenReorder {
		return reorderEvaluator{}
	}
	return choiceEvaluator{}
}

type choiceEvaluator struct{}

func (choiceEvaluator) Evaluate(q *Question, a *Attempt) bool {
	return a.Selected >= 0 && a.Selected == q.CorrectIndex
}

// reorderEvaluator compares the assembled text rather than token indices, so
// repeated tokens may be placed in either order.
type reorderEvaluator struct{}

func (reorderEvaluator) Evaluate(q *Question, a *Attempt) bool {
	if len(a.Sequence) != len(q.Tokens) {
		return false
	}
	var b strings.Builder
	for _, pos := range a.Sequence {
		b.WriteString(q.BankToken(pos))
	}
	return b.String() == strings.Join(q.Tokens, "")
}

// Assembled returns the text built so far for a reorder attempt.
func Assembled(q *Question, a *Attempt) []string {
	out := make([]string, 0, len(a.Sequence))
	for _, pos := range a.Sequence {
		out = append(out, q.BankToken(pos))
	}
	return out
}
