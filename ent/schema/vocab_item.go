package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// VocabItem is a Thai word with its translation and optional example
// sentence and secondary-language gloss.
type VocabItem struct {
	ent.Schema
}

func (VocabItem) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable().
			Comment("UUID"),
		field.String("owner").
			Default("").
			Comment("Opaque user ID; empty for guest items"),
		field.String("thai").
			NotEmpty().
			Comment("Target-language text; natural key per owner"),
		field.String("romanization").
			Default(""),
		field.String("translation").
			NotEmpty(),
		field.String("example_thai").
			Default("").
			Comment("Example sentence containing the word"),
		field.String("example_translation").
			Default(""),
		field.String("gloss_text").
			Default("").
			Comment("Secondary-language rendering"),
		field.String("gloss_reading").
			Default(""),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (VocabItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("owner", "thai").Unique(),
		index.Fields("created_at"),
	}
}
