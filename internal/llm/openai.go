package llm

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel     = "gpt-mini"
	defaultOpenRouterModel = "google/gemini-2.5-flash"
	openRouterBaseURL      = "https://openrouter.ai/api/v1"
)

var openaiModels = map[string]string{
	"gpt-nano":  "gpt-4.1-nano",
	"gpt-mini":  "gpt-4.1-mini",
	"gpt-large": "gpt-4.1",
}

// OpenAIProvider calls an OpenAI-compatible chat completions endpoint.
// Structured replies use a strict json_schema response format.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(s Settings) (*OpenAIProvider, error) {
	s.Model = resolveModel(cmp.Or(s.Model, defaultOpenAIModel), openaiModels)
	return dialOpenAI(ProviderOpenAI, s)
}

// NewOpenRouterProvider targets OpenRouter, which speaks the same chat API.
// Its vendor-prefixed model IDs ("google/...") are used as given.
func NewOpenRouterProvider(s Settings) (*OpenAIProvider, error) {
	s.Model = cmp.Or(s.Model, defaultOpenRouterModel)
	s.BaseURL = cmp.Or(s.BaseURL, openRouterBaseURL)
	return dialOpenAI(ProviderOpenRouter, s)
}

func dialOpenAI(name string, s Settings) (*OpenAIProvider, error) {
	if s.APIKey == "" {
		return nil, missingKey(name)
	}
	conf := openai.DefaultConfig(s.APIKey)
	if s.BaseURL != "" {
		conf.BaseURL = s.BaseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(conf), model: s.Model}, nil
}

func (p *OpenAIProvider) ModelID() string { return p.model }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            openaiMessages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("encode schema %s: %w", req.Schema.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return nil, openaiError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("completion has no choices")}
	}
	first := resp.Choices[0]
	return settle(req, completion{
		text:      first.Message.Content,
		truncated: first.FinishReason == openai.FinishReasonLength,
		model:     cmp.Or(resp.Model, p.model),
		usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	})
}

func openaiMessages(req Request) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func openaiError(err error) error {
	var (
		apiErr *openai.APIError
		reqErr *openai.RequestError
	)
	switch {
	case errors.As(err, &apiErr):
		return classify(apiErr.HTTPStatusCode, 0, err)
	case errors.As(err, &reqErr):
		return classify(reqErr.HTTPStatusCode, 0, err)
	}
	return classify(0, 0, err)
}
