package quizlog

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/store"
	"github.com/abhisek/phasa/internal/vocab"
)

func sampleItems() []vocab.Item {
	return []vocab.Item{
		{ID: "a", Thai: "กิน", Translation: "to eat"},
		{ID: "b", Thai: "น้ำ", Translation: "water"},
	}
}

type fakeSink struct {
	quizzes []store.QuizEventData
	answers []store.AnswerEventData
	err     error
}

func (f *fakeSink) AppendQuizEvent(_ context.Context, d store.QuizEventData) error {
	f.quizzes = append(f.quizzes, d)
	return f.err
}

func (f *fakeSink) AppendAnswerEvent(_ context.Context, d store.AnswerEventData) error {
	f.answers = append(f.answers, d)
	return f.err
}

func TestRecorderLifecycle(t *testing.T) {
	sink := &fakeSink{}
	rec := New(sink, Meta{Owner: "u1", Kind: "word_match", Source: "local"})

	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return clock }

	if got := rec.SessionID(); got != "" {
		t.Errorf("SessionID() before Start = %q, want empty", got)
	}
	id := rec.Start(context.Background(), 2)
	if id == "" {
		t.Fatal("Start returned an empty session ID")
	}

	q := &quiz.Question{Kind: quiz.KindWordMatch, Prompt: "กิน", Options: []string{"to eat", "water"}, CorrectIndex: 0, ItemID: "item-1"}
	rec.OnAnswer(quiz.AnswerEvent{Index: 0, Question: q, HadWrong: true, Attempts: 2})

	clock = clock.Add(90 * time.Second)
	rec.OnFinish(quiz.Summary{Total: 2, Correct: 1, Wrong: 1})

	if len(sink.quizzes) != 2 {
		t.Fatalf("recorded %d quiz events, want 2", len(sink.quizzes))
	}
	wantStart := store.QuizEventData{
		SessionID: id, Owner: "u1", Action: store.ActionStart, Kind: "word_match", Source: "local", Total: 2,
	}
	if !reflect.DeepEqual(sink.quizzes[0], wantStart) {
		t.Errorf("start event = %+v, want %+v", sink.quizzes[0], wantStart)
	}
	end := sink.quizzes[1]
	if end.Action != store.ActionEnd || end.DurationSecs != 90 || end.Correct != 1 || end.Wrong != 1 {
		t.Errorf("end event = %+v, want end after 90s with 1 correct, 1 wrong", end)
	}

	if len(sink.answers) != 1 {
		t.Fatalf("recorded %d answers, want 1", len(sink.answers))
	}
	wantAnswer := store.AnswerEventData{
		SessionID: id, QuestionIndex: 0, Kind: "word_match", ItemID: "item-1",
		Prompt: "กิน", Answer: "to eat", HadWrong: true, Attempts: 2,
	}
	if !reflect.DeepEqual(sink.answers[0], wantAnswer) {
		t.Errorf("answer event = %+v, want %+v", sink.answers[0], wantAnswer)
	}
}

func TestRecorderIgnoresEventsBeforeStart(t *testing.T) {
	sink := &fakeSink{}
	rec := New(sink, Meta{Kind: "cloze"})

	rec.OnAnswer(quiz.AnswerEvent{Question: &quiz.Question{Kind: quiz.KindCloze}})
	rec.OnFinish(quiz.Summary{})
	if len(sink.quizzes) != 0 || len(sink.answers) != 0 {
		t.Errorf("recorded %d quiz events and %d answers before Start", len(sink.quizzes), len(sink.answers))
	}
}

func TestRecorderRestartUsesNewSession(t *testing.T) {
	rec := New(&fakeSink{}, Meta{})
	first := rec.Start(context.Background(), 1)
	second := rec.Start(context.Background(), 1)
	if first == second {
		t.Errorf("Start reused session %q", first)
	}
}

func TestRecorderSwallowsSinkErrors(t *testing.T) {
	sink := &fakeSink{err: errors.New("disk full")}
	rec := New(sink, Meta{})
	rec.Start(context.Background(), 1)
	rec.OnFinish(quiz.Summary{Total: 1, Correct: 1})
	if len(sink.quizzes) != 2 {
		t.Errorf("recorded %d quiz events, want 2", len(sink.quizzes))
	}
}

func TestRecorderNilSink(t *testing.T) {
	rec := New(nil, Meta{})
	if rec.Start(context.Background(), 3) == "" {
		t.Error("Start with no sink returned an empty session ID")
	}
	rec.OnFinish(quiz.Summary{})
}

func TestRecorderWithController(t *testing.T) {
	sink := &fakeSink{}
	rec := New(sink, Meta{Kind: "word_match"})

	src := quiz.SourceFunc(func(_ context.Context, pool quiz.Pool, i int) (*quiz.Question, error) {
		it := pool.At(i)
		return &quiz.Question{Kind: quiz.KindWordMatch, Prompt: it.Thai, Options: []string{it.Translation, "other"}, CorrectIndex: 0, ItemID: it.ID}, nil
	})
	c := quiz.NewController(sampleItems(), src, quiz.WithObserver(rec))
	defer c.Close()
	rec.Start(context.Background(), c.TotalQuestions())

	for !c.Finished() {
		if err := c.Await(context.Background()); err != nil {
			t.Fatalf("Await: %v", err)
		}
		q := c.Current()
		if got := c.Select(q.CorrectIndex); got != quiz.OutcomeCorrect {
			t.Fatalf("Select(correct) = %v", got)
		}
		c.Next()
	}

	if len(sink.answers) != 2 {
		t.Errorf("recorded %d answers, want 2", len(sink.answers))
	}
	if len(sink.quizzes) != 2 {
		t.Fatalf("recorded %d quiz events, want 2", len(sink.quizzes))
	}
	if got := sink.quizzes[1].Correct; got != 2 {
		t.Errorf("end event Correct = %d, want 2", got)
	}
}
