package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// Ordered adds the columns shared by every event table. sequence comes
// from the "events" row of Counter and totally orders rows across tables.
type Ordered struct {
	mixin.Schema
}

func (Ordered) Fields() []ent.Field {
	seq := field.Int64("sequence").Unique().Immutable()
	at := field.Time("timestamp").Immutable().Default(time.Now).Comment("UTC")
	return []ent.Field{seq, at}
}

func (Ordered) Indexes() []ent.Index {
	return []ent.Index{index.Fields("timestamp")}
}
