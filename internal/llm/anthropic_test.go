package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func anthropicReply(stop string, texts ...string) map[string]any {
	blocks := make([]map[string]any, 0, len(texts))
	for _, t := range texts {
		blocks = append(blocks, map[string]any{"type": "text", "text": t})
	}
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"content":     blocks,
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func anthropicFailure(kind string) map[string]any {
	return map[string]any{
		"type":  "error",
		"error": map[string]any{"type": kind, "message": kind},
	}
}

func anthropicAt(t *testing.T, s *stub) *AnthropicProvider {
	t.Helper()
	p, err := NewAnthropicProvider(Settings{APIKey: "test-key", BaseURL: s.URL})
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}
	return p
}

func TestAnthropicGenerate(t *testing.T) {
	s := newStub(t, http.StatusOK, anthropicReply("end_turn", `{"thai":"กิน",`, `"count":1}`))
	p := anthropicAt(t, s)

	resp, err := p.Generate(context.Background(), Request{
		System:      "You write Thai vocabulary questions.",
		Messages:    []Message{{Role: RoleUser, Content: "Word: กิน"}},
		Schema:      wordSchema(),
		MaxTokens:   256,
		Temperature: 0.4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sameJSON(t, `{"thai":"กิน","count":1}`, string(resp.Content))
	if resp.Usage != tokens(50, 30) {
		t.Errorf("Usage = %+v", resp.Usage)
	}
	if resp.Model != "claude-haiku-4-5-20251001" || resp.StopReason != "end" {
		t.Errorf("Model %q, StopReason %q", resp.Model, resp.StopReason)
	}

	body := s.sent(t)
	if body["model"] != "claude-haiku-4-5-20251001" {
		t.Errorf("sent model %v", body["model"])
	}
	if body["max_tokens"] != float64(256) || body["temperature"] != 0.4 {
		t.Errorf("sent max_tokens %v, temperature %v", body["max_tokens"], body["temperature"])
	}
	for _, key := range []string{"system", "output_config"} {
		if _, ok := body[key]; !ok {
			t.Errorf("request is missing %q", key)
		}
	}
}

func TestAnthropicGenerate_DefaultsMaxTokens(t *testing.T) {
	s := newStub(t, http.StatusOK, anthropicReply("end_turn", "สวัสดี"))
	_, err := anthropicAt(t, s).Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := s.sent(t)
	if body["max_tokens"] != float64(anthropicFallbackMaxTokens) {
		t.Errorf("sent max_tokens %v, want %d", body["max_tokens"], anthropicFallbackMaxTokens)
	}
	if _, ok := body["output_config"]; ok {
		t.Error("free-text request carried output_config")
	}
}

func TestAnthropicGenerate_Truncated(t *testing.T) {
	s := newStub(t, http.StatusOK, anthropicReply("max_tokens", `{"thai":"กิ`))
	_, err := anthropicAt(t, s).Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "x"}},
		MaxTokens: 16,
	})
	var cut *ErrMaxTokensExceeded
	if !errors.As(err, &cut) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
	if cut.Limit != 16 {
		t.Errorf("Limit = %d, want 16", cut.Limit)
	}
}

func TestAnthropicGenerate_Errors(t *testing.T) {
	t.Run("rate limit with hint", func(t *testing.T) {
		s := newStub(t, http.StatusTooManyRequests, anthropicFailure("rate_limit_error"))
		s.header.Set("Retry-After", "4")
		_, err := anthropicAt(t, s).Generate(context.Background(), Request{MaxTokens: 10})
		var rl *ErrRateLimit
		if !errors.As(err, &rl) {
			t.Fatalf("expected ErrRateLimit, got %v", err)
		}
		if rl.RetryAfter != 4*time.Second {
			t.Errorf("RetryAfter = %v, want 4s", rl.RetryAfter)
		}
	})
	t.Run("server error", func(t *testing.T) {
		s := newStub(t, http.StatusInternalServerError, anthropicFailure("api_error"))
		_, err := anthropicAt(t, s).Generate(context.Background(), Request{MaxTokens: 10})
		var down *ErrProviderUnavailable
		if !errors.As(err, &down) {
			t.Errorf("expected ErrProviderUnavailable, got %v", err)
		}
	})
	t.Run("bad key", func(t *testing.T) {
		s := newStub(t, http.StatusUnauthorized, anthropicFailure("authentication_error"))
		_, err := anthropicAt(t, s).Generate(context.Background(), Request{MaxTokens: 10})
		var rej *ErrRejected
		if !errors.As(err, &rej) {
			t.Fatalf("expected ErrRejected, got %v", err)
		}
		if rej.Status != http.StatusUnauthorized {
			t.Errorf("Status = %d, want 401", rej.Status)
		}
	})
}

func TestNewAnthropicProvider(t *testing.T) {
	if _, err := NewAnthropicProvider(Settings{}); err == nil || !strings.Contains(err.Error(), "API key is required") {
		t.Errorf("missing key: got %v", err)
	}

	for model, want := range map[string]string{
		"claude-sonnet": "claude-sonnet-4-5-20250929",
		"":              "claude-haiku-4-5-20251001",
	} {
		p, err := NewAnthropicProvider(Settings{APIKey: "k", Model: model})
		if err != nil {
			t.Fatalf("model %q: %v", model, err)
		}
		if p.ModelID() != want {
			t.Errorf("model %q: ModelID() = %q, want %q", model, p.ModelID(), want)
		}
	}
}
