package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/phasa/internal/llm"
	"github.com/abhisek/phasa/internal/quiz"
)

func clozeJSON() json.RawMessage {
	return json.RawMessage(`{
		"kind": "cloze",
		"prompt": "ฉัน___ข้าวทุกวัน",
		"prompt_note": "I eat rice every day",
		"options": ["กิน", "นอน", "เดิน", "อ่าน"],
		"option_notes": ["to eat", "to sleep", "to walk", "to read"],
		"tokens": [],
		"explanation": "กิน is the everyday verb for eating."
	}`)
}

func wordMatchJSON() json.RawMessage {
	return json.RawMessage(`{
		"kind": "word_match",
		"prompt": "กิน",
		"prompt_note": "gin",
		"options": ["to eat", "to drink", "to cook", "to buy"],
		"option_notes": ["", "", "", ""],
		"tokens": [],
		"explanation": "Polite speech often uses ทาน instead."
	}`)
}

func reorderJSON() json.RawMessage {
	return json.RawMessage(`{
		"kind": "token_reorder",
		"prompt": "I eat rice every day",
		"prompt_note": "",
		"options": [],
		"option_notes": [],
		"tokens": ["ฉัน", "กิน", "ข้าว", "ทุกวัน"],
		"explanation": "Thai keeps subject, verb, object order."
	}`)
}

func configFor(mode Mode) Config {
	cfg := DefaultConfig()
	cfg.Mode = mode
	return cfg
}

func testPool() quiz.Pool {
	return quiz.NewPool(sampleItems())
}

func TestGenerate_Cloze(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: clozeJSON()})
	gen := New(mock, configFor(ModeCloze))

	q, err := gen.Generate(context.Background(), testPool(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Kind != quiz.KindCloze {
		t.Errorf("expected cloze, got %q", q.Kind)
	}
	if q.Prompt != "ฉัน"+quiz.Blank+"ข้าวทุกวัน" {
		t.Errorf("blank not normalized: %q", q.Prompt)
	}
	if q.Answer() != "กิน" {
		t.Errorf("expected answer กิน, got %q", q.Answer())
	}
	if q.AnswerAux() != "to eat" {
		t.Errorf("expected aux to follow the answer, got %q", q.AnswerAux())
	}
	if q.ItemID != "1" {
		t.Errorf("expected item ID 1, got %q", q.ItemID)
	}
	if err := q.Validate(); err != nil {
		t.Errorf("question invalid: %v", err)
	}
}

func TestGenerate_ShufflesCorrectOption(t *testing.T) {
	positions := map[int]bool{}
	for range 40 {
		mock := llm.NewMockProvider(llm.MockResponse{Content: wordMatchJSON()})
		q, err := New(mock, configFor(ModeWordMatch)).Generate(context.Background(), testPool(), 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Answer() != "to eat" {
			t.Fatalf("correct option lost: %q", q.Answer())
		}
		positions[q.CorrectIndex] = true
	}
	if len(positions) < 2 {
		t.Errorf("correct option never moved from %v", positions)
	}
}

func TestGenerate_TokenReorder(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: reorderJSON()})
	q, err := New(mock, configFor(ModeTokenReorder)).Generate(context.Background(), testPool(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Answer() != "ฉันกินข้าวทุกวัน" {
		t.Errorf("unexpected answer %q", q.Answer())
	}
	if len(q.Bank) != 4 {
		t.Fatalf("expected 4 bank entries, got %d", len(q.Bank))
	}
	if err := q.Validate(); err != nil {
		t.Errorf("question invalid: %v", err)
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: clozeJSON()})
	gen := New(mock, configFor(ModeCloze))
	if _, err := gen.Generate(context.Background(), testPool(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Schema != QuestionSchema {
		t.Error("expected QuestionSchema")
	}
	if req.MaxTokens != 768 {
		t.Errorf("expected MaxTokens 768, got %d", req.MaxTokens)
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Kind: cloze", "Word: กิน", "Meaning: to eat", "Already asked in this session:\nNone"} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q:\n%s", want, msg)
		}
	}
}

func TestGenerate_PriorPromptsSent(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: wordMatchJSON()},
		llm.MockResponse{Content: wordMatchJSON()},
	)
	gen := New(mock, configFor(ModeWordMatch))
	pool := quiz.NewPool(sampleItems()[:1])
	for range 2 {
		if _, err := gen.Generate(context.Background(), pool, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if !strings.Contains(mock.Calls[1].Messages[0].Content, "1. กิน") {
		t.Errorf("second request should list the first prompt:\n%s", mock.Calls[1].Messages[0].Content)
	}

	gen.Forget()
	if len(gen.priorPrompts()) != 0 {
		t.Error("Forget should clear prior prompts")
	}
}

func TestGenerate_FailsSoft(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		resp   llm.MockResponse
		reason string
	}{
		{"rate limit", ModeCloze, llm.MockResponse{Err: &llm.ErrRateLimit{RetryAfter: time.Second}}, ReasonRateLimited},
		{"rejected", ModeCloze, llm.MockResponse{Err: &llm.ErrRejected{Status: 401, Err: errors.New("bad key")}}, ReasonRejected},
		{"unavailable", ModeCloze, llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("dial")}}, ReasonUnreachable},
		{"invalid response", ModeCloze, llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: errors.New("schema")}}, ReasonBadOutput},
		{"truncated", ModeCloze, llm.MockResponse{Err: &llm.ErrMaxTokensExceeded{}}, ReasonBadOutput},
		{"empty", ModeCloze, llm.MockResponse{Content: json.RawMessage(``)}, ReasonBadOutput},
		{"null", ModeCloze, llm.MockResponse{Content: json.RawMessage(`null`)}, ReasonBadOutput},
		{"not json", ModeCloze, llm.MockResponse{Content: json.RawMessage(`{"kind":`)}, ReasonBadOutput},
		{"wrong type", ModeCloze, llm.MockResponse{Content: json.RawMessage(`{"kind": 3}`)}, ReasonBadOutput},
		{"wrong kind", ModeWordMatch, llm.MockResponse{Content: clozeJSON()}, ReasonBadOutput},
		{"three options", ModeWordMatch, llm.MockResponse{Content: json.RawMessage(`{
			"kind": "word_match", "prompt": "กิน", "prompt_note": "", "options": ["a", "b", "c"],
			"option_notes": [], "tokens": [], "explanation": ""}`)}, ReasonBadOutput},
		{"no blank", ModeCloze, llm.MockResponse{Content: json.RawMessage(`{
			"kind": "cloze", "prompt": "ฉันกินข้าว", "prompt_note": "", "options": ["กิน", "นอน", "เดิน", "อ่าน"],
			"option_notes": [], "tokens": [], "explanation": ""}`)}, ReasonBadOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.resp)
			q, err := New(mock, configFor(tt.mode)).Generate(context.Background(), testPool(), 0)
			if q != nil {
				t.Errorf("expected nil question, got %+v", q)
			}
			var ue *quiz.UnavailableError
			if !errors.As(err, &ue) {
				t.Fatalf("expected UnavailableError, got %T: %v", err, err)
			}
			if ue.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", ue.Reason, tt.reason)
			}
		})
	}
}

func TestGenerate_NotConfigured(t *testing.T) {
	_, err := New(nil, DefaultConfig()).Generate(context.Background(), testPool(), 0)
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if quiz.ReasonOf(err) != ReasonNotConfigured {
		t.Errorf("unexpected reason %q", quiz.ReasonOf(err))
	}
}

// hangingProvider blocks until the request context ends.
type hangingProvider struct{}

func (hangingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (hangingProvider) ModelID() string { return "hang" }

func TestGenerate_Timeout(t *testing.T) {
	cfg := configFor(ModeCloze)
	cfg.Timeout = 20 * time.Millisecond

	_, err := New(hangingProvider{}, cfg).Generate(context.Background(), testPool(), 0)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if quiz.ReasonOf(err) != ReasonTimeout {
		t.Errorf("unexpected reason %q", quiz.ReasonOf(err))
	}
}

func TestGenerate_ControllerRetry(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: wordMatchJSON()},
	)
	pool := sampleItems()[:1]
	c := quiz.NewController(pool, New(mock, configFor(ModeWordMatch)))
	defer c.Close()

	if err := c.Await(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Err() != ReasonUnreachable {
		t.Fatalf("expected unreachable reason, got %q", c.Err())
	}
	<-c.Retry()
	if !c.Resolve() {
		t.Fatalf("expected ready after retry, err=%q", c.Err())
	}
	if c.Current().Answer() != "to eat" {
		t.Errorf("unexpected answer %q", c.Current().Answer())
	}
}
