package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DailyWord places a vocabulary item in the word set of one calendar day.
type DailyWord struct {
	ent.Schema
}

func (DailyWord) Fields() []ent.Field {
	return []ent.Field{
		field.String("date").
			NotEmpty().
			Comment("Civil date, YYYY-MM-DD"),
		field.String("item_id").
			NotEmpty().
			Comment("Links to VocabItem"),
		field.Int("position").
			Default(0).
			Comment("Order within the day"),
	}
}

func (DailyWord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("date", "item_id").Unique(),
		index.Fields("item_id"),
	}
}
