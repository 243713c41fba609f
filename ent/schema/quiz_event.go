package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizEvent records quiz lifecycle events (start/end).
type QuizEvent struct {
	ent.Schema
}

func (QuizEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{Ordered{}}
}

func (QuizEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events of one quiz run"),
		field.String("owner").
			Default("").
			Comment("Opaque user ID; empty for guest"),
		field.String("action").
			NotEmpty().
			Comment("start or end"),
		field.String("kind").
			Comment("cloze, word_match, token_reorder or mixed"),
		field.String("source").
			Default("local").
			Comment("local or llm"),
		field.Int("total").
			Default(0).
			Comment("Questions in the pool"),
		field.Int("correct").
			Default(0).
			Comment("First-try correct (on end only)"),
		field.Int("wrong").
			Default(0).
			Comment("Answered after a wrong attempt (on end only)"),
		field.Int("duration_secs").
			Default(0).
			Comment("Run duration in seconds (on end only)"),
	}
}

func (QuizEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("action"),
	}
}
