package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LLMRequestEvent is one attempt against an LLM provider, kept for the
// `phasa llm` audit commands and cost estimates.
type LLMRequestEvent struct {
	ent.Schema
}

func (LLMRequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{Ordered{}}
}

func (LLMRequestEvent) Fields() []ent.Field {
	tokenCount := func(name string) ent.Field {
		return field.Int(name).NonNegative().Default(0)
	}
	body := func(name string) ent.Field {
		return field.Text(name).Default("")
	}
	return []ent.Field{
		field.String("provider").Comment("anthropic, openai, gemini, openrouter or mock"),
		field.String("model").Comment("model that served the request, as reported back"),
		field.String("purpose").Comment("label from llm.WithPurpose"),
		tokenCount("input_tokens"),
		tokenCount("output_tokens"),
		field.Int64("latency_ms").NonNegative().Default(0),
		field.Bool("success"),
		field.String("error_message").Default(""),
		body("request_body"),
		body("response_body"),
	}
}

func (LLMRequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("purpose", "timestamp"),
		index.Fields("model"),
	}
}
