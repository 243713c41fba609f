package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/abhisek/phasa/internal/vocab"
)

func testItems(n int) []vocab.Item {
	items := make([]vocab.Item, n)
	for i := range items {
		items[i] = vocab.Item{
			ID:          fmt.Sprintf("id-%d", i),
			Thai:        fmt.Sprintf("คำ%d", i),
			Translation: fmt.Sprintf("word %d", i),
		}
	}
	return items
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// matchSource builds word-match questions with the correct translation
// placed first, then shuffled.
type matchSource struct {
	mu    sync.Mutex
	calls map[int]int
	fail  map[int]error
}

func newMatchSource() *matchSource {
	return &matchSource{calls: map[int]int{}, fail: map[int]error{}}
}

func (s *matchSource) Generate(_ context.Context, pool Pool, index int) (*Question, error) {
	s.mu.Lock()
	s.calls[index]++
	err := s.fail[index]
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	base := pool.At(index)
	options := []string{base.Translation, "d1", "d2", "d3"}
	sh := ShuffleOptions(nil, PairOptions(options, nil, 0))
	return &Question{
		Kind:         KindWordMatch,
		Prompt:       base.Thai,
		Options:      sh.Options,
		CorrectIndex: sh.CorrectIndex,
		ItemID:       base.ID,
	}, nil
}

func (s *matchSource) callsFor(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[i]
}

func (s *matchSource) setFail(i int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, i)
		return
	}
	s.fail[i] = err
}

// reorderSource asks every item as the sentence "A B C".
var reorderSource = SourceFunc(func(_ context.Context, pool Pool, index int) (*Question, error) {
	tokens := []string{"A", "B", "C"}
	return &Question{
		Kind:   KindTokenReorder,
		Prompt: pool.At(index).Translation,
		Tokens: tokens,
		Bank:   ShuffleTokens(nil, len(tokens)),
	}, nil
})

func optionIndex(q *Question, text string) int {
	for i, o := range q.Options {
		if o == text {
			return i
		}
	}
	return -1
}

func wrongIndex(q *Question) int {
	for i := range q.Options {
		if i != q.CorrectIndex {
			return i
		}
	}
	return -1
}

func bankPos(q *Question, token string) int {
	for pos := range q.Bank {
		if q.BankToken(pos) == token {
			return pos
		}
	}
	return -1
}

type recordingObserver struct {
	answers  []AnswerEvent
	finished []Summary
}

func (o *recordingObserver) OnAnswer(ev AnswerEvent) { o.answers = append(o.answers, ev) }
func (o *recordingObserver) OnFinish(s Summary)      { o.finished = append(o.finished, s) }
