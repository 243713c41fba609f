package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/phasa/internal/vocab"
)

// Source produces the question for one pool index. Implementations must not
// panic; failures are reported as errors, preferably *UnavailableError.
type Source interface {
	Generate(ctx context.Context, pool Pool, index int) (*Question, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, pool Pool, index int) (*Question, error)

func (f SourceFunc) Generate(ctx context.Context, pool Pool, index int) (*Question, error) {
	return f(ctx, pool, index)
}

// Observer is notified of answers and session completion. Calls happen on
// the goroutine driving the controller.
type Observer interface {
	OnAnswer(ev AnswerEvent)
	OnFinish(s Summary)
}

// AnswerEvent describes a question that has just been answered correctly.
type AnswerEvent struct {
	Index    int
	Question *Question
	HadWrong bool
	Attempts int
}

// Phase is the controller's position in the session.
type Phase int

const (
	// PhaseEmpty means the pool has no items; the session never finishes.
	PhaseEmpty Phase = iota
	// PhaseLoading waits for the current question. Err is set if the last
	// fetch failed.
	PhaseLoading
	// PhaseReady has a current question accepting attempts.
	PhaseReady
	// PhaseFinished is terminal until Reset.
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFinished:
		return "finished"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Outcome is the result of selecting an option.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeWrong
	OutcomeCorrect
)

// Step is the result of Next.
type Step int

const (
	// StepNone means nothing happened.
	StepNone Step = iota
	// StepWrong means a reorder submission was wrong and has been cleared.
	StepWrong
	// StepAdvanced means the controller moved to the next index.
	StepAdvanced
	// StepFinished means the last question was answered.
	StepFinished
)

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithPoolSize caps the number of questions. n <= 0 uses every item.
func WithPoolSize(n int) ControllerOption {
	return func(c *Controller) { c.poolSize = n }
}

// WithRand sets the random source used to build pools.
func WithRand(rng *rand.Rand) ControllerOption {
	return func(c *Controller) { c.rng = rng }
}

// WithObserver registers an observer.
func WithObserver(o Observer) ControllerOption {
	return func(c *Controller) { c.observer = o }
}

// WithHandoff adopts a prepared pool and first question instead of building
// a pool. Reset ignores it.
func WithHandoff(h Handoff) ControllerOption {
	return func(c *Controller) { c.handoff = &h }
}

// WithContext sets the parent context for question fetches.
func WithContext(ctx context.Context) ControllerOption {
	return func(c *Controller) { c.ctx = ctx }
}

// Controller drives one quiz session. It is not safe for concurrent use;
// only its fetches run in the background.
type Controller struct {
	items    []vocab.Item
	src      Source
	poolSize int
	rng      *rand.Rand
	observer Observer
	handoff  *Handoff
	ctx      context.Context

	pool    Pool
	cache   *Prefetcher
	phase   Phase
	index   int
	current *Question
	attempt *Attempt
	err     string
	results []SummaryItem
}

// NewController creates a controller over items. The first question is not
// requested until Load or Await.
func NewController(items []vocab.Item, src Source, opts ...ControllerOption) *Controller {
	c := &Controller{
		items:    append([]vocab.Item(nil), items...),
		src:      src,
		poolSize: DefaultPoolSize,
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.handoff != nil {
		c.start(c.handoff.Pool)
		c.cache.Seed(0, c.handoff.First)
		c.handoff = nil
		c.Resolve()
	} else {
		c.start(BuildPool(c.items, c.poolSize, c.rng))
	}
	return c
}

func (c *Controller) start(pool Pool) {
	c.pool = pool
	c.cache = NewPrefetcher(c.ctx, func(ctx context.Context, i int) (*Question, error) {
		return c.src.Generate(ctx, pool, i)
	})
	c.index = 0
	c.current = nil
	c.attempt = nil
	c.err = ""
	c.results = nil
	if pool.Len() == 0 {
		c.phase = PhaseEmpty
	} else {
		c.phase = PhaseLoading
	}
}

// Load requests the current question and returns a channel that closes once
// it settles. Call Resolve afterwards.
func (c *Controller) Load() <-chan struct{} {
	if c.phase != PhaseLoading {
		return settled
	}
	return c.cache.Ensure(c.index)
}

// Resolve folds the settled cache entry for the current index into the
// controller. It reports whether a question is ready.
func (c *Controller) Resolve() bool {
	if c.phase != PhaseLoading {
		return c.phase == PhaseReady
	}

	q, state, err := c.cache.Get(c.index)
	switch state {
	case EntryReady:
		c.current = q
		c.attempt = newAttempt()
		c.err = ""
		c.phase = PhaseReady
		c.prefetchNext()
		return true
	case EntryUnavailable:
		c.err = ReasonOf(err)
		c.prefetchNext()
	}
	return false
}

func (c *Controller) prefetchNext() {
	if next := c.index + 1; next < c.pool.Len() {
		c.cache.Ensure(next)
	}
}

// Await loads and resolves the current question, blocking until it settles
// or ctx is done.
func (c *Controller) Await(ctx context.Context) error {
	select {
	case <-c.Load():
	case <-ctx.Done():
		return ctx.Err()
	}
	c.Resolve()
	return nil
}

// Retry refetches the current question after a failure. It returns nil when
// there is nothing to retry.
func (c *Controller) Retry() <-chan struct{} {
	if c.phase != PhaseLoading {
		return nil
	}
	if _, state, _ := c.cache.Get(c.index); state != EntryUnavailable {
		return nil
	}
	c.err = ""
	return c.cache.Retry(c.index)
}

// Select picks option i of a multiple-choice question.
func (c *Controller) Select(i int) Outcome {
	if c.phase != PhaseReady || c.attempt.Correct || !c.current.Kind.MultipleChoice() {
		return OutcomeIgnored
	}
	if i < 0 || i >= len(c.current.Options) {
		return OutcomeIgnored
	}

	c.attempt.Selected = i
	c.attempt.Attempts++
	if !EvaluatorFor(c.current.Kind).Evaluate(c.current, c.attempt) {
		c.attempt.HadWrong = true
		return OutcomeWrong
	}
	c.markCorrect()
	return OutcomeCorrect
}

// PickToken appends the token at bank position pos to the sequence.
func (c *Controller) PickToken(pos int) bool {
	if !c.editable() || pos < 0 || pos >= len(c.current.Bank) || c.attempt.Used(pos) {
		return false
	}
	c.attempt.Sequence = append(c.attempt.Sequence, pos)
	return true
}

// RemoveToken removes the token at sequence position i, returning it to the
// bank.
func (c *Controller) RemoveToken(i int) bool {
	if !c.editable() || i < 0 || i >= len(c.attempt.Sequence) {
		return false
	}
	c.attempt.Sequence = append(c.attempt.Sequence[:i], c.attempt.Sequence[i+1:]...)
	return true
}

func (c *Controller) editable() bool {
	return c.phase == PhaseReady && !c.attempt.Correct && c.current.Kind == KindTokenReorder
}

// Next submits a complete reorder sequence, or advances past a correctly
// answered question.
func (c *Controller) Next() Step {
	if c.phase != PhaseReady {
		return StepNone
	}

	if c.current.Kind == KindTokenReorder && !c.attempt.Correct {
		if len(c.attempt.Sequence) != len(c.current.Tokens) {
			return StepNone
		}
		c.attempt.Attempts++
		if !EvaluatorFor(c.current.Kind).Evaluate(c.current, c.attempt) {
			c.attempt.Sequence = nil
			c.attempt.HadWrong = true
			return StepWrong
		}
		c.markCorrect()
		if c.phase == PhaseFinished {
			return StepFinished
		}
	}

	if !c.attempt.Correct || c.index >= c.pool.Len()-1 {
		return StepNone
	}
	c.advance()
	return StepAdvanced
}

func (c *Controller) markCorrect() {
	c.attempt.Correct = true
	c.results = append(c.results, SummaryItem{
		Index:     c.index,
		Kind:      c.current.Kind,
		Prompt:    c.current.Prompt,
		Answer:    c.current.Answer(),
		AnswerAux: c.current.AnswerAux(),
		HadWrong:  c.attempt.HadWrong,
	})
	if c.observer != nil {
		c.observer.OnAnswer(AnswerEvent{
			Index:    c.index,
			Question: c.current,
			HadWrong: c.attempt.HadWrong,
			Attempts: c.attempt.Attempts,
		})
	}

	if c.index == c.pool.Len()-1 && len(c.results) == c.pool.Len() {
		c.phase = PhaseFinished
		c.cache.Close()
		if c.observer != nil {
			c.observer.OnFinish(c.Summary())
		}
	}
}

func (c *Controller) advance() {
	c.index++
	c.current = nil
	c.attempt = nil
	c.err = ""
	c.phase = PhaseLoading
	c.cache.Ensure(c.index)
	c.Resolve()
}

// Reset discards the session and starts over with a freshly built pool.
func (c *Controller) Reset() {
	c.cache.Close()
	c.start(BuildPool(c.items, c.poolSize, c.rng))
}

// Close stops any background fetches.
func (c *Controller) Close() {
	c.cache.Close()
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Index returns the 0-based current index.
func (c *Controller) Index() int { return c.index }

// QuestionNumber returns the 1-based current question number, or 0 for an
// empty pool.
func (c *Controller) QuestionNumber() int {
	if c.pool.Len() == 0 {
		return 0
	}
	return c.index + 1
}

// TotalQuestions returns the pool size.
func (c *Controller) TotalQuestions() int { return c.pool.Len() }

// Pool returns the session's pool.
func (c *Controller) Pool() Pool { return c.pool }

// Current returns the current question, or nil while loading.
func (c *Controller) Current() *Question { return c.current }

// Attempt returns a copy of the current attempt state.
func (c *Controller) Attempt() (Attempt, bool) {
	if c.attempt == nil {
		return Attempt{Selected: -1}, false
	}
	return c.attempt.snapshot(), true
}

// CanAdvance reports whether Next would move to another question.
func (c *Controller) CanAdvance() bool {
	return c.phase == PhaseReady && c.attempt.Correct && c.index < c.pool.Len()-1
}

// Finished reports whether the session is complete.
func (c *Controller) Finished() bool { return c.phase == PhaseFinished }

// Err returns the learner-facing error for the current question, if any.
func (c *Controller) Err() string { return c.err }

// Summary aggregates the results recorded so far.
func (c *Controller) Summary() Summary { return Summarize(c.results) }

// CorrectCount returns the number of questions answered on the first try.
func (c *Controller) CorrectCount() int { return c.Summary().Correct }

// WrongCount returns the number of questions that needed more than one try.
func (c *Controller) WrongCount() int { return c.Summary().Wrong }
