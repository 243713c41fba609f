// Package quizlog persists quiz runs as start, answer and end events.
package quizlog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/store"
)

// Sink stores quiz events. store.EventRepo satisfies it.
type Sink interface {
	AppendQuizEvent(ctx context.Context, data store.QuizEventData) error
	AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error
}

// Meta describes the quiz being recorded.
type Meta struct {
	Owner  string
	Kind   string // question kind or "mixed"
	Source string // "local" or "llm"
}

// Recorder is a quiz.Observer that writes each run to a Sink. Write
// failures are logged, never surfaced to the quiz.
type Recorder struct {
	sink Sink
	meta Meta
	now  func() time.Time

	mu        sync.Mutex
	sessionID string
	started   time.Time
	total     int
}

var _ quiz.Observer = (*Recorder)(nil)

// New creates a Recorder. A nil sink records nothing.
func New(sink Sink, meta Meta) *Recorder {
	return &Recorder{sink: sink, meta: meta, now: time.Now}
}

// Start opens a new run over total questions and returns its session ID.
// Call it again after the controller is reset.
func (r *Recorder) Start(ctx context.Context, total int) string {
	r.mu.Lock()
	r.sessionID = uuid.NewString()
	r.started = r.now()
	r.total = total
	id := r.sessionID
	r.mu.Unlock()

	r.write(func(s Sink) error {
		return s.AppendQuizEvent(ctx, store.QuizEventData{
			SessionID: id,
			Owner:     r.meta.Owner,
			Action:    store.ActionStart,
			Kind:      r.meta.Kind,
			Source:    r.meta.Source,
			Total:     total,
		})
	})
	return id
}

// SessionID returns the current run's ID, or "" before Start.
func (r *Recorder) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

// OnAnswer records one correctly answered question.
func (r *Recorder) OnAnswer(ev quiz.AnswerEvent) {
	id := r.SessionID()
	if id == "" || ev.Question == nil {
		return
	}
	q := ev.Question
	r.write(func(s Sink) error {
		return s.AppendAnswerEvent(context.Background(), store.AnswerEventData{
			SessionID:     id,
			QuestionIndex: ev.Index,
			Kind:          string(q.Kind),
			ItemID:        q.ItemID,
			Prompt:        q.Prompt,
			Answer:        q.Answer(),
			HadWrong:      ev.HadWrong,
			Attempts:      ev.Attempts,
		})
	})
}

// OnFinish records the end of the run.
func (r *Recorder) OnFinish(sum quiz.Summary) {
	r.mu.Lock()
	id, started, total := r.sessionID, r.started, r.total
	r.mu.Unlock()
	if id == "" {
		return
	}
	if total == 0 {
		total = sum.Total
	}
	r.write(func(s Sink) error {
		return s.AppendQuizEvent(context.Background(), store.QuizEventData{
			SessionID:    id,
			Owner:        r.meta.Owner,
			Action:       store.ActionEnd,
			Kind:         r.meta.Kind,
			Source:       r.meta.Source,
			Total:        total,
			Correct:      sum.Correct,
			Wrong:        sum.Wrong,
			DurationSecs: int(r.now().Sub(started).Seconds()),
		})
	})
}

func (r *Recorder) write(fn func(Sink) error) {
	if r.sink == nil {
		return
	}
	if err := fn(r.sink); err != nil {
		slog.Warn("failed to record quiz event", "session", r.SessionID(), "err", err)
	}
}
