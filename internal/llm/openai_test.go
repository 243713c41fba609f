package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func chatReply(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4.1-mini-2025-04-14",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func chatFailure(kind string) map[string]any {
	return map[string]any{"error": map[string]any{"type": kind, "message": kind}}
}

func openaiAt(t *testing.T, s *stub) *OpenAIProvider {
	t.Helper()
	p, err := NewOpenAIProvider(Settings{APIKey: "test-key", BaseURL: s.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	return p
}

func TestOpenAIGenerate(t *testing.T) {
	s := newStub(t, http.StatusOK, chatReply("```json\n{\"thai\":\"ข้าว\",\"count\":3}\n```", "stop"))

	resp, err := openaiAt(t, s).Generate(context.Background(), Request{
		System:    "You write Thai vocabulary questions.",
		Messages:  []Message{{Role: RoleUser, Content: "Word: ข้าว"}},
		Schema:    wordSchema(),
		MaxTokens: 200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sameJSON(t, `{"thai":"ข้าว","count":3}`, string(resp.Content))
	if want := (Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}); resp.Usage != want {
		t.Errorf("Usage = %+v, want %+v", resp.Usage, want)
	}
	if resp.Model != "gpt-4.1-mini-2025-04-14" {
		t.Errorf("Model = %q", resp.Model)
	}

	body := s.sent(t)
	if body["model"] != "gpt-4.1-mini" {
		t.Errorf("sent model %v", body["model"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want 2", len(msgs))
	}
	if role := msgs[0].(map[string]any)["role"]; role != "system" {
		t.Errorf("first message role %v, want system", role)
	}

	format, _ := body["response_format"].(map[string]any)
	if format == nil {
		t.Fatal("request has no response_format")
	}
	if format["type"] != "json_schema" {
		t.Errorf("response_format type %v", format["type"])
	}
	schema, _ := format["json_schema"].(map[string]any)
	if schema["name"] != "test-word" || schema["strict"] != true {
		t.Errorf("json_schema = %v", schema)
	}
}

func TestOpenAIGenerate_Truncated(t *testing.T) {
	s := newStub(t, http.StatusOK, chatReply(`{"thai":"ข้`, "length"))
	_, err := openaiAt(t, s).Generate(context.Background(), Request{MaxTokens: 8})
	var cut *ErrMaxTokensExceeded
	if !errors.As(err, &cut) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
	if cut.Limit != 8 {
		t.Errorf("Limit = %d, want 8", cut.Limit)
	}
}

func TestOpenAIGenerate_NoChoices(t *testing.T) {
	reply := chatReply("", "stop")
	reply["choices"] = []any{}
	s := newStub(t, http.StatusOK, reply)

	_, err := openaiAt(t, s).Generate(context.Background(), Request{})
	var bad *ErrInvalidResponse
	if !errors.As(err, &bad) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestOpenAIGenerate_Errors(t *testing.T) {
	var (
		rl   *ErrRateLimit
		down *ErrProviderUnavailable
		rej  *ErrRejected
	)
	tests := []struct {
		status int
		target any
	}{
		{http.StatusTooManyRequests, &rl},
		{http.StatusBadGateway, &down},
		{http.StatusNotFound, &rej},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			s := newStub(t, tt.status, chatFailure("error"))
			_, err := openaiAt(t, s).Generate(context.Background(), Request{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.As(err, tt.target) {
				t.Errorf("HTTP %d mapped to %T: %v", tt.status, err, err)
			}
		})
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	if _, err := NewOpenAIProvider(Settings{Model: "gpt-mini"}); err == nil {
		t.Error("expected an error without an API key")
	}

	for model, want := range map[string]string{"gpt-large": "gpt-4.1", "gpt-4o": "gpt-4o"} {
		p, err := NewOpenAIProvider(Settings{APIKey: "k", Model: model})
		if err != nil {
			t.Fatalf("model %q: %v", model, err)
		}
		if p.ModelID() != want {
			t.Errorf("model %q: ModelID() = %q, want %q", model, p.ModelID(), want)
		}
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	if _, err := NewOpenRouterProvider(Settings{Model: "google/gemini-2.0-flash"}); err == nil || !strings.Contains(err.Error(), "openrouter") {
		t.Errorf("missing key: got %v", err)
	}

	p, err := NewOpenRouterProvider(Settings{APIKey: "sk-or"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != defaultOpenRouterModel {
		t.Errorf("ModelID() = %q, want %q", p.ModelID(), defaultOpenRouterModel)
	}

	// Vendor IDs are not run through the OpenAI aliases.
	p, err = NewOpenRouterProvider(Settings{APIKey: "sk-or", Model: "gpt-mini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-mini" {
		t.Errorf("ModelID() = %q, want gpt-mini", p.ModelID())
	}
}

func TestOpenRouterGenerate(t *testing.T) {
	s := newStub(t, http.StatusOK, chatReply(`{"thai":"น้ำ","count":1}`, "stop"))
	p, err := NewOpenRouterProvider(Settings{APIKey: "sk-or", Model: "anthropic/claude-3-haiku", BaseURL: s.URL})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}

	if _, err := p.Generate(context.Background(), Request{Schema: wordSchema()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model := s.sent(t)["model"]; model != "anthropic/claude-3-haiku" {
		t.Errorf("sent model %v", model)
	}
}
