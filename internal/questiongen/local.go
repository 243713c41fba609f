package questiongen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/vocab"
)

// Mode selects which kinds of question the Local source produces.
type Mode string

const (
	ModeCloze        Mode = "cloze"
	ModeWordMatch    Mode = "word_match"
	ModeTokenReorder Mode = "token_reorder"
	// ModeMixed cycles through every kind by question index.
	ModeMixed Mode = "mixed"
)

// ParseMode converts a user-supplied name into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch m {
	case ModeCloze, ModeWordMatch, ModeTokenReorder, ModeMixed:
		return m, nil
	case "":
		return ModeMixed, nil
	}
	return "", fmt.Errorf("unknown mode %q: want cloze, word_match, token_reorder or mixed", s)
}

// kindFor returns the question kind asked at index.
func (m Mode) kindFor(index int) quiz.Kind {
	switch m {
	case ModeCloze:
		return quiz.KindCloze
	case ModeTokenReorder:
		return quiz.KindTokenReorder
	case ModeMixed:
		return quiz.Kinds[index%len(quiz.Kinds)]
	}
	return quiz.KindWordMatch
}

// Local synthesizes questions from the pool itself. It never fails: a pool
// too small for a full option set is padded by repeating distractors, and
// items unsuited to the requested kind fall back to word match.
type Local struct {
	mode    Mode
	options int

	mu  sync.Mutex
	rng *rand.Rand
}

// LocalOption configures a Local source.
type LocalOption func(*Local)

// WithRand makes the source draw from rng instead of the global generator.
func WithRand(rng *rand.Rand) LocalOption {
	return func(l *Local) { l.rng = rng }
}

// WithOptionCount sets the number of options on multiple-choice questions.
func WithOptionCount(n int) LocalOption {
	return func(l *Local) {
		if n > 0 {
			l.options = n
		}
	}
}

// NewLocal creates a Local source.
func NewLocal(mode Mode, opts ...LocalOption) *Local {
	l := &Local{mode: mode, options: quiz.DefaultOptionCount}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Generate builds the question for pool index.
func (l *Local) Generate(_ context.Context, pool quiz.Pool, index int) (*quiz.Question, error) {
	if index < 0 || index >= pool.Len() {
		return nil, quiz.Unavailable("", fmt.Errorf("index %d out of range for pool of %d", index, pool.Len()))
	}

	// The prefetcher may call Generate for two indices at once.
	l.mu.Lock()
	defer l.mu.Unlock()

	item := pool.At(index)
	others := pool.Others(index)

	switch l.mode.kindFor(index) {
	case quiz.KindCloze:
		if q, ok := l.cloze(item, others); ok {
			return q, nil
		}
	case quiz.KindTokenReorder:
		if q, ok := l.reorder(item); ok {
			return q, nil
		}
	}
	return l.wordMatch(item, others), nil
}

func (l *Local) wordMatch(item vocab.Item, others []vocab.Item) *quiz.Question {
	translation := func(it vocab.Item) string { return strings.TrimSpace(it.Translation) }
	distractors := l.distractors(item, others, translation)

	options := []string{translation(item)}
	aux := []string{item.GlossText()}
	for _, d := range distractors {
		options = append(options, translation(d))
		aux = append(aux, d.GlossText())
	}
	sh := quiz.ShuffleOptions(l.rng, quiz.PairOptions(options, aux, 0))

	return &quiz.Question{
		Kind:         quiz.KindWordMatch,
		Prompt:       item.Thai,
		PromptNote:   item.Romanization,
		Options:      sh.Options,
		CorrectIndex: sh.CorrectIndex,
		Aux:          sh.Aux,
		Explanation:  exampleNote(item),
		ItemID:       item.ID,
	}
}

func (l *Local) cloze(item vocab.Item, others []vocab.Item) (*quiz.Question, bool) {
	if !item.HasExample() {
		return nil, false
	}
	prompt, ok := blankFirst(item.Example.Thai, item.Key())
	if !ok {
		return nil, false
	}

	distractors := l.distractors(item, others, vocab.Item.Key)
	options := []string{item.Key()}
	aux := []string{item.Translation}
	for _, d := range distractors {
		options = append(options, d.Key())
		aux = append(aux, d.Translation)
	}
	sh := quiz.ShuffleOptions(l.rng, quiz.PairOptions(options, aux, 0))

	return &quiz.Question{
		Kind:         quiz.KindCloze,
		Prompt:       prompt,
		PromptNote:   item.Example.Translation,
		Options:      sh.Options,
		CorrectIndex: sh.CorrectIndex,
		Aux:          sh.Aux,
		Explanation:  wordNote(item),
		ItemID:       item.ID,
	}, true
}

func (l *Local) reorder(item vocab.Item) (*quiz.Question, bool) {
	if !item.HasExample() {
		return nil, false
	}
	tokens := sentenceTokens(item.Example.Thai, item.Key())
	if len(tokens) < 2 {
		return nil, false
	}
	return &quiz.Question{
		Kind:        quiz.KindTokenReorder,
		Prompt:      item.Example.Translation,
		PromptNote:  item.Key(),
		Tokens:      tokens,
		Bank:        quiz.ShuffleTokens(l.rng, len(tokens)),
		Explanation: wordNote(item),
		ItemID:      item.ID,
	}, true
}

// distractors picks options-1 items from others. Items whose option text
// repeats the answer or another pick are skipped while enough remain; when
// the pool runs short the picks repeat cyclically.
func (l *Local) distractors(item vocab.Item, others []vocab.Item, text func(vocab.Item) string) []vocab.Item {
	k := l.options - 1
	if k <= 0 || len(others) == 0 {
		return nil
	}

	seen := map[string]bool{text(item): true}
	var picked, skipped []vocab.Item
	for _, i := range quiz.Perm(l.rng, len(others)) {
		it := others[i]
		t := text(it)
		if seen[t] || t == "" {
			skipped = append(skipped, it)
			continue
		}
		seen[t] = true
		picked = append(picked, it)
	}
	picked = append(picked, skipped...)

	out := make([]vocab.Item, k)
	for i := range out {
		out[i] = picked[i%len(picked)]
	}
	return out
}

func exampleNote(item vocab.Item) string {
	if !item.HasExample() {
		return wordNote(item)
	}
	return fmt.Sprintf("%s\n%s", strings.TrimSpace(item.Example.Thai), strings.TrimSpace(item.Example.Translation))
}

func wordNote(item vocab.Item) string {
	var b strings.Builder
	b.WriteString(item.Key())
	if item.Romanization != "" {
		fmt.Fprintf(&b, " (%s)", item.Romanization)
	}
	fmt.Fprintf(&b, ": %s", item.Translation)
	if g := item.GlossText(); g != "" {
		fmt.Fprintf(&b, " / %s", g)
		if item.Gloss.Reading != "" {
			fmt.Fprintf(&b, " [%s]", item.Gloss.Reading)
		}
	}
	return b.String()
}
