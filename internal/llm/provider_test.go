package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func wordSchema() *Schema {
	return &Schema{
		Name: "test-word",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"thai":  map[string]any{"type": "string", "minLength": 1},
				"count": map[string]any{"type": "integer", "minimum": 0},
				"kind":  map[string]any{"type": "string", "enum": []any{"cloze", "word_match"}},
			},
			"required":             []any{"thai", "count"},
			"additionalProperties": false,
		},
	}
}

// sameJSON compares two JSON documents by value.
func sameJSON(t *testing.T, want, got string) {
	t.Helper()
	var w, g any
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("bad expected JSON %q: %v", want, err)
	}
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("reply is not JSON: %q: %v", got, err)
	}
	if !reflect.DeepEqual(w, g) {
		t.Errorf("JSON = %s, want %s", got, want)
	}
}

func TestSettle(t *testing.T) {
	req := Request{Schema: wordSchema(), MaxTokens: 64}

	resp, err := settle(req, completion{
		text:  "```json\n{\"thai\":\"กิน\",\"count\":2}\n```",
		model: "m",
		usage: tokens(10, 4),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sameJSON(t, `{"thai":"กิน","count":2}`, string(resp.Content))
	if want := (Usage{InputTokens: 10, OutputTokens: 4, TotalTokens: 14}); resp.Usage != want {
		t.Errorf("Usage = %+v, want %+v", resp.Usage, want)
	}
	if resp.StopReason != "end" || resp.Model != "m" {
		t.Errorf("StopReason %q, Model %q; want end, m", resp.StopReason, resp.Model)
	}

	_, err = settle(req, completion{text: `{"thai":"กิ`, truncated: true})
	var cut *ErrMaxTokensExceeded
	if !errors.As(err, &cut) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
	if cut.Limit != 64 || string(cut.Content) != `{"thai":"กิ` {
		t.Errorf("cut = limit %d, content %s", cut.Limit, cut.Content)
	}

	_, err = settle(req, completion{text: "  "})
	var bad *ErrInvalidResponse
	if !errors.As(err, &bad) {
		t.Errorf("blank reply: expected ErrInvalidResponse, got %v", err)
	}

	_, err = settle(req, completion{text: `{"thai":"กิน"}`})
	if !errors.As(err, &bad) {
		t.Fatalf("schema miss: expected ErrInvalidResponse, got %v", err)
	}
	if string(bad.Content) != `{"thai":"กิน"}` {
		t.Errorf("Content = %s", bad.Content)
	}
}

func TestSettle_FreeText(t *testing.T) {
	resp, err := settle(Request{}, completion{text: "สวัสดี"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != "สวัสดี" {
		t.Errorf("Content = %s", resp.Content)
	}
}

func TestStripCodeFence(t *testing.T) {
	for in, want := range map[string]string{
		`{"a":1}`:                   `{"a":1}`,
		"  {\"a\":1}\n":             `{"a":1}`,
		"```json\n{\"a\":1}\n```":   `{"a":1}`,
		"```\n{\"a\":1}```":         `{"a":1}`,
		"```JSON\n[1,2]\n```\n\n  ": `[1,2]`,
	} {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		alias  string
		models map[string]string
		want   string
	}{
		{"claude-sonnet", anthropicModels, "claude-sonnet-4-5-20250929"},
		{"claude-haiku", anthropicModels, "claude-haiku-4-5-20251001"},
		{"claude-opus-4-5", anthropicModels, "claude-opus-4-5"},
		{"gpt-nano", openaiModels, "gpt-4.1-nano"},
		{"gemini-pro", geminiModels, "gemini-2.5-pro"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.alias, tt.models); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.alias, got, tt.want)
		}
	}
}

type tagged struct {
	Provider
	tag   string
	trail *[]string
}

func (p tagged) Generate(ctx context.Context, req Request) (*Response, error) {
	*p.trail = append(*p.trail, p.tag)
	return p.Provider.Generate(ctx, req)
}

func TestChainOrder(t *testing.T) {
	var trail []string
	tag := func(name string) Middleware {
		return func(next Provider) Provider { return tagged{Provider: next, tag: name, trail: &trail} }
	}
	p := Chain(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), tag("outer"), tag("inner"))

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(trail, []string{"outer", "inner"}) {
		t.Errorf("call order = %v, want [outer inner]", trail)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID() = %q, want mock", p.ModelID())
	}
}

func TestPurpose(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != "unlabeled" {
		t.Errorf("default purpose = %q, want unlabeled", got)
	}
	ctx := WithPurpose(context.Background(), "question-gen")
	if got := PurposeFrom(ctx); got != "question-gen" {
		t.Errorf("purpose = %q, want question-gen", got)
	}
}

func TestMockProvider(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"n":1}`), Usage: tokens(3, 2)},
		MockResponse{Err: &ErrRateLimit{}},
	)
	ctx := context.Background()

	resp, err := m.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "one"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"n":1}` || resp.Usage.TotalTokens != 5 {
		t.Errorf("first reply = %s with %d tokens", resp.Content, resp.Usage.TotalTokens)
	}

	_, err = m.Generate(ctx, Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Errorf("second call: expected ErrRateLimit, got %v", err)
	}

	// An empty script reports the provider as down.
	_, err = m.Generate(ctx, Request{})
	var down *ErrProviderUnavailable
	if !errors.As(err, &down) {
		t.Errorf("third call: expected ErrProviderUnavailable, got %v", err)
	}

	m.Enqueue(MockResponse{Content: json.RawMessage(`{"n":2}`)})
	resp, err = m.Generate(ctx, Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"n":2}` {
		t.Errorf("queued reply = %s", resp.Content)
	}

	if m.CallCount() != 4 {
		t.Errorf("expected 4 calls, got %d", m.CallCount())
	}
	if got := m.Calls[0].Messages[0].Content; got != "one" {
		t.Errorf("first recorded message = %q", got)
	}
}

func TestMockProvider_Cancelled(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if m.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", m.CallCount())
	}
}

// stub serves one canned JSON reply for every request and keeps the last
// request body it saw.
type stub struct {
	URL      string
	status   int
	header   http.Header
	reply    any
	lastBody []byte
}

func newStub(t *testing.T, status int, reply any) *stub {
	t.Helper()
	s := &stub{status: status, reply: reply, header: http.Header{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastBody, _ = io.ReadAll(r.Body)
		for k, v := range s.header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		_ = json.NewEncoder(w).Encode(s.reply)
	}))
	t.Cleanup(srv.Close)
	s.URL = srv.URL
	return s
}

func (s *stub) sent(t *testing.T) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(s.lastBody, &body); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	return body
}
