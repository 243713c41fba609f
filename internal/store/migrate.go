package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/phasa/ent/schema"
)

// Table names.
const (
	tableVocabItems  = "vocab_items"
	tableDailyWords  = "daily_words"
	tableLLMRequests = "llm_request_events"
	tableQuizEvents  = "quiz_events"
	tableAnswers     = "answer_events"
	tableCounters    = "counters"
)

// entities maps each table to the ent schema that declares it, in creation
// order.
var entities = []struct {
	table string
	def   ent.Interface
}{
	{tableVocabItems, entschema.VocabItem{}},
	{tableDailyWords, entschema.DailyWord{}},
	{tableLLMRequests, entschema.LLMRequestEvent{}},
	{tableQuizEvents, entschema.QuizEvent{}},
	{tableAnswers, entschema.AnswerEvent{}},
	{tableCounters, entschema.Counter{}},
}

// Tables builds the migration tables from the ent schema descriptors.
func Tables() ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := buildTable(e.table, e.def)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func migrate(ctx context.Context, drv *entsql.Driver) error {
	tables, err := Tables()
	if err != nil {
		return err
	}
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}

func buildTable(name string, def ent.Interface) (*schema.Table, error) {
	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range def.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, def.Fields()...)
	indexes = append(indexes, def.Indexes()...)

	t := schema.NewTable(name)
	customID := false
	for _, f := range fields {
		if f.Descriptor().Name == "id" {
			customID = true
		}
	}
	if !customID {
		t.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})
	}

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		col := &schema.Column{
			Name:     columnName(d),
			Type:     d.Info.Type,
			Size:     int64(d.Size),
			Unique:   d.Unique,
			Nullable: d.Optional,
			Default:  literalDefault(d.Default),
			Comment:  d.Comment,
		}
		if d.Name == "id" {
			t.AddPrimary(col)
			continue
		}
		t.AddColumn(col)
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		idxName := d.StorageKey
		if idxName == "" {
			idxName = name + "_" + strings.Join(d.Fields, "_")
		}
		t.AddIndex(idxName, d.Unique, d.Fields)
	}
	return t, nil
}

func columnName(d *field.Descriptor) string {
	if d.StorageKey != "" {
		return d.StorageKey
	}
	return d.Name
}

// literalDefault returns v if it can be expressed as a column default.
// Generated defaults such as time.Now are applied by the repositories.
func literalDefault(v any) any {
	if v == nil || reflect.TypeOf(v).Kind() == reflect.Func {
		return nil
	}
	return v
}
