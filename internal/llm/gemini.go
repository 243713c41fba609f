package llm

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-flash"

var geminiModels = map[string]string{
	"gemini-flash-lite": "gemini-2.5-flash-lite",
	"gemini-flash":      "gemini-2.5-flash",
	"gemini-pro":        "gemini-2.5-pro",
}

// GeminiProvider calls the Gemini API. Structured replies use a response
// schema, which Gemini expresses in its own subset of JSON Schema.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, s Settings) (*GeminiProvider, error) {
	if s.APIKey == "" {
		return nil, missingKey(ProviderGemini)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      s.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: s.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiProvider{
		client: client,
		model:  resolveModel(cmp.Or(s.Model, defaultGeminiModel), geminiModels),
	}, nil
}

func (p *GeminiProvider) ModelID() string { return p.model }

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	conf := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		conf.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		conf.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		conf.ResponseMIMEType = "application/json"
		conf.ResponseSchema = buildGeminiSchema(req.Schema.Definition)
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, conf)
	if err != nil {
		return nil, geminiError(err)
	}

	c := completion{text: result.Text(), model: cmp.Or(result.ModelVersion, p.model)}
	if len(result.Candidates) > 0 {
		c.truncated = result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens
	}
	if u := result.UsageMetadata; u != nil {
		c.usage = Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return settle(req, c)
}

// buildGeminiSchema converts the JSON Schema keywords Gemini understands.
// Unknown keywords are dropped.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	out := &genai.Schema{}
	if t, ok := def["type"].(string); ok {
		out.Type = genai.Type(strings.ToUpper(t))
	}
	out.Description, _ = def["description"].(string)
	out.Required = stringList(def["required"])
	out.Enum = stringList(def["enum"])

	if props, ok := def["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if sub, ok := v.(map[string]any); ok {
				out.Properties[name] = buildGeminiSchema(sub)
			}
		}
	}
	if items, ok := def["items"].(map[string]any); ok {
		out.Items = buildGeminiSchema(items)
	}
	if n, ok := number(def["minItems"]); ok {
		out.MinItems = genai.Ptr(n)
	}
	if n, ok := number(def["maxItems"]); ok {
		out.MaxItems = genai.Ptr(n)
	}
	return out
}

// stringList accepts both []any (decoded JSON) and []string (Go literals).
func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, e := range list {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func number(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func geminiError(err error) error {
	// genai returns APIError by value.
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classify(apiErr.Code, 0, err)
	}
	return classify(0, 0, err)
}
