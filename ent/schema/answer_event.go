package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records one answered question within a quiz run.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{Ordered{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to QuizEvent"),
		field.Int("question_index").
			Comment("Position in the pool"),
		field.String("kind").
			NotEmpty().
			Comment("cloze, word_match or token_reorder"),
		field.String("item_id").
			Default("").
			Comment("Vocabulary item the question was built from"),
		field.String("prompt").
			Comment("The question shown"),
		field.String("answer").
			Comment("The correct answer"),
		field.Bool("had_wrong").
			Comment("Whether any wrong attempt preceded the answer"),
		field.Int("attempts").
			Default(1).
			Comment("Submissions until correct"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("item_id"),
	}
}
