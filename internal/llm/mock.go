package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

const mockModel = "mock"

// MockResponse is one scripted reply. A non-nil Err is returned instead of
// a Response.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays a script of replies in order and records every
// request it receives. Once the script runs out it reports the provider as
// unavailable.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse

	// Calls holds each request in arrival order.
	Calls []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.script) == 0 {
		return nil, &ErrProviderUnavailable{Err: errors.New("mock script exhausted")}
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: mockModel, StopReason: stopEnd}, nil
}

func (m *MockProvider) ModelID() string { return mockModel }

// Enqueue appends replies to the script.
func (m *MockProvider) Enqueue(rs ...MockResponse) {
	m.mu.Lock()
	m.script = append(m.script, rs...)
	m.mu.Unlock()
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
