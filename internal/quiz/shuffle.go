package quiz

import "math/rand/v2"

// Option is one answer option paired with its correctness flag, so the
// correct answer is tracked by identity rather than by text.
type Option struct {
	Text    string
	Aux     string
	Correct bool
}

// PairOptions zips options and aux text with the correct flag. aux may be
// nil or shorter than options.
func PairOptions(options, aux []string, correct int) []Option {
	out := make([]Option, len(options))
	for i, text := range options {
		out[i] = Option{Text: text, Correct: i == correct}
		if i < len(aux) {
			out[i].Aux = aux[i]
		}
	}
	return out
}

// Shuffled is the result of ShuffleOptions.
type Shuffled struct {
	Options      []string
	Aux          []string // nil when no option had aux text
	CorrectIndex int      // -1 when no option was flagged correct
}

// ShuffleOptions permutes the paired options uniformly and reports where the
// correct one landed. The input slice is not modified. A nil rng uses the
// global source.
func ShuffleOptions(rng *rand.Rand, opts []Option) Shuffled {
	work := make([]Option, len(opts))
	copy(work, opts)
	shuffle(rng, len(work), func(i, j int) { work[i], work[j] = work[j], work[i] })

	out := Shuffled{
		Options:      make([]string, len(work)),
		CorrectIndex: -1,
	}
	hasAux := false
	for i, o := range work {
		out.Options[i] = o.Text
		if o.Correct && out.CorrectIndex < 0 {
			out.CorrectIndex = i
		}
		if o.Aux != "" {
			hasAux = true
		}
	}
	if hasAux {
		out.Aux = make([]string, len(work))
		for i, o := range work {
			out.Aux[i] = o.Aux
		}
	}
	return out
}

// ShuffleTokens returns a display order for n reorder tokens. For n > 1 the
// identity order is never returned.
func ShuffleTokens(rng *rand.Rand, n int) []int {
	bank := make([]int, n)
	for i := range bank {
		bank[i] = i
	}
	if n < 2 {
		return bank
	}
	shuffle(rng, n, func(i, j int) { bank[i], bank[j] = bank[j], bank[i] })
	if isIdentity(bank) {
		bank[0], bank[1] = bank[1], bank[0]
	}
	return bank
}

func isIdentity(p []int) bool {
	for i, v := range p {
		if i != v {
			return false
		}
	}
	return true
}

// shuffle is a Fisher-Yates shuffle over rng, or the global source if nil.
func shuffle(rng *rand.Rand, n int, swap func(i, j int)) {
	if rng == nil {
		rand.Shuffle(n, swap)
		return
	}
	rng.Shuffle(n, swap)
}

// IntN draws from rng, or from the global source if rng is nil.
func IntN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}

// Perm returns a random permutation of [0,n) from rng or the global source.
func Perm(rng *rand.Rand, n int) []int {
	if rng == nil {
		return rand.Perm(n)
	}
	return rng.Perm(n)
}
