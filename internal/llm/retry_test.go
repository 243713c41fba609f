package llm

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Base: time.Millisecond, Cap: 4 * time.Millisecond, Factor: 2}
}

var okReply = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func TestRetrying(t *testing.T) {
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("502")}}
	bad := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("schema")}}

	tests := []struct {
		name    string
		script  []MockResponse
		calls   int
		wantErr error
	}{
		{"first try", []MockResponse{okReply}, 1, nil},
		{"transient then ok", []MockResponse{down, down, okReply}, 3, nil},
		{"rate limited then ok", []MockResponse{{Err: &ErrRateLimit{}}, okReply}, 2, nil},
		{"gives up after attempts", []MockResponse{down, down, down, okReply}, 3, &ErrProviderUnavailable{}},
		{"bad reply resampled once", []MockResponse{bad, okReply}, 2, nil},
		{"bad reply twice", []MockResponse{bad, bad, okReply}, 2, &ErrInvalidResponse{}},
		{"truncation not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, okReply}, 1, &ErrMaxTokensExceeded{}},
		{"rejection not retried", []MockResponse{{Err: &ErrRejected{Status: 401}}, okReply}, 1, &ErrRejected{}},
		{"unknown error not retried", []MockResponse{{Err: errors.New("odd")}, okReply}, 1, errors.New("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			resp, err := Retrying(fastPolicy())(mock).Generate(context.Background(), Request{})

			if mock.CallCount() != tt.calls {
				t.Errorf("expected %d calls, got %d", tt.calls, mock.CallCount())
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(resp.Content) != `{"ok":true}` {
					t.Errorf("unexpected content: %s", resp.Content)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if reflect.TypeOf(err) != reflect.TypeOf(tt.wantErr) {
				t.Errorf("expected %T, got %T (%v)", tt.wantErr, err, err)
			}
		})
	}
}

func TestRetrying_ZeroAttemptsStillTriesOnce(t *testing.T) {
	mock := NewMockProvider(okReply)
	if _, err := Retrying(RetryPolicy{})(mock).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetrying_StopsWhenCancelled(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Minute}},
		okReply,
	)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Retrying(fastPolicy())(mock).Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if took := time.Since(start); took >= time.Second {
		t.Errorf("waited %v despite the deadline", took)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetryPolicyDelay(t *testing.T) {
	p := RetryPolicy{Base: 100 * time.Millisecond, Cap: 300 * time.Millisecond, Factor: 2}
	other := errors.New("x")

	for try, full := range map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 3: 300 * time.Millisecond, 6: 300 * time.Millisecond} {
		for range 20 {
			if d := p.delay(try, other); d < full/2 || d > full {
				t.Errorf("try %d: delay %v outside [%v, %v]", try, d, full/2, full)
			}
		}
	}

	if d := p.delay(1, &ErrRateLimit{RetryAfter: 9 * time.Second}); d != 9*time.Second {
		t.Errorf("rate limit delay = %v, want 9s", d)
	}

	flat := RetryPolicy{Base: 10 * time.Millisecond}
	if d := flat.delay(5, other); d > 10*time.Millisecond {
		t.Errorf("flat delay = %v, want at most 10ms", d)
	}
}
