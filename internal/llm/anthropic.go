package llm

import (
	"cmp"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel = "claude-haiku"
	// The Messages API requires max_tokens.
	anthropicFallbackMaxTokens = 1024
)

var anthropicModels = map[string]string{
	"claude-haiku":  "claude-haiku-4-5-20251001",
	"claude-sonnet": "claude-sonnet-4-5-20250929",
}

// AnthropicProvider calls the Anthropic Messages API. Structured replies
// use the API's JSON output format.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

func NewAnthropicProvider(s Settings) (*AnthropicProvider, error) {
	if s.APIKey == "" {
		return nil, missingKey(ProviderAnthropic)
	}
	// Retries happen in Retrying so each attempt is audited.
	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  resolveModel(cmp.Or(s.Model, defaultAnthropicModel), anthropicModels),
	}, nil
}

func (p *AnthropicProvider) ModelID() string { return p.model }

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(cmp.Or(req.MaxTokens, anthropicFallbackMaxTokens)),
		Messages:  make([]anthropic.MessageParam, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, anthropicError(err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return settle(req, completion{
		text:      text.String(),
		truncated: msg.StopReason == anthropic.StopReasonMaxTokens,
		model:     cmp.Or(string(msg.Model), p.model),
		usage:     tokens(int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)),
	})
}

func anthropicError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return classify(0, 0, err)
	}
	var wait time.Duration
	if apiErr.Response != nil {
		wait = retryAfter(apiErr.Response.Header)
	}
	return classify(apiErr.StatusCode, wait, err)
}
