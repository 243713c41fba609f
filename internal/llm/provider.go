// Package llm is a thin, provider-neutral client for structured text
// generation. Each backend adapter turns its SDK reply into a completion;
// the shared code in this package enforces token limits, strips markdown
// fences and validates JSON replies against the requested schema.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Provider generates one completion per call.
type Provider interface {
	// Generate sends req and returns the reply. When req.Schema is set the
	// reply Content has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider sends requests to.
	ModelID() string
}

// Request is a single-turn or multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks for a JSON reply of this shape. Nil means free text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Role identifies who wrote a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Schema is a named JSON Schema. Name is used as the cache key for the
// compiled form, so two different definitions must not share a name.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a successful completion.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Usage counts the tokens billed for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

const (
	stopEnd       = "end"
	stopMaxTokens = "max_tokens"
)

func tokens(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// Middleware decorates a Provider.
type Middleware func(Provider) Provider

// Chain wraps p so that mws[0] is the outermost layer.
func Chain(p Provider, mws ...Middleware) Provider {
	for i := len(mws) - 1; i >= 0; i-- {
		p = mws[i](p)
	}
	return p
}

// completion is what an adapter pulls out of its SDK reply.
type completion struct {
	text      string
	truncated bool
	model     string
	usage     Usage
}

// settle applies the checks every adapter shares and builds the Response.
func settle(req Request, c completion) (*Response, error) {
	content := json.RawMessage(stripCodeFence(c.text))
	if c.truncated {
		return nil, &ErrMaxTokensExceeded{Content: content, Limit: req.MaxTokens}
	}
	if len(content) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("completion has no text")}
	}
	if err := schemas.check(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{
		Content:    content,
		Usage:      c.usage,
		Model:      c.model,
		StopReason: stopEnd,
	}, nil
}

// stripCodeFence unwraps a reply wrapped in a ``` markdown fence, which some
// models add even when asked for bare JSON.
func stripCodeFence(s string) string {
	body, ok := strings.CutPrefix(strings.TrimSpace(s), "```")
	if !ok {
		return strings.TrimSpace(s)
	}
	// Drop the info string ("json") on the opening line.
	if _, rest, found := strings.Cut(body, "\n"); found {
		body = rest
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// resolveModel expands a short alias; anything else is used verbatim.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

type purposeKey struct{}

// WithPurpose labels the requests made under ctx, e.g. "question-gen".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unlabeled".
func PurposeFrom(ctx context.Context) string {
	if p, _ := ctx.Value(purposeKey{}).(string); p != "" {
		return p
	}
	return "unlabeled"
}
