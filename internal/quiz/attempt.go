package quiz

// Attempt is the per-question attempt state. It is created when a question
// becomes current and frozen once the learner moves past it.
type Attempt struct {
	// Selected is the last option picked, or -1.
	Selected int

	// Sequence holds bank positions in the order they were picked.
	Sequence []int

	Correct  bool
	HadWrong bool

	// Attempts counts evaluated submissions, right or wrong.
	Attempts int
}

func newAttempt() *Attempt {
	return &Attempt{Selected: -1}
}

// Used reports whether the token at bank position pos is in the sequence.
func (a *Attempt) Used(pos int) bool {
	for _, p := range a.Sequence {
		if p == pos {
			return true
		}
	}
	return false
}

func (a *Attempt) snapshot() Attempt {
	cp := *a
	cp.Sequence = append([]int(nil), a.Sequence...)
	return cp
}
