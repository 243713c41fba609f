package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/phasa/internal/vocab"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

var vocabColumns = []string{
	"id", "owner", "thai", "romanization", "translation",
	"example_thai", "example_translation", "gloss_text", "gloss_reading", "created_at",
}

// VocabRepo stores vocabulary items and daily word sets. It implements
// vocab.Source and vocab.DailySource.
type VocabRepo struct {
	db *sql.DB
}

var (
	_ vocab.Source      = (*VocabRepo)(nil)
	_ vocab.DailySource = (*VocabRepo)(nil)
)

// Create validates and inserts it, assigning ID and CreatedAt when unset.
// A word the owner already has yields ErrDuplicate.
func (r *VocabRepo) Create(ctx context.Context, it *vocab.Item) error {
	return r.create(ctx, r.db, it)
}

func (r *VocabRepo) create(ctx context.Context, q querier, it *vocab.Item) error {
	if err := it.Validate(); err != nil {
		return fmt.Errorf("invalid item %q: %w", it.Thai, err)
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	it.Thai = it.Key()

	ex, exTr := "", ""
	if it.Example != nil {
		ex, exTr = it.Example.Thai, it.Example.Translation
	}
	gl, glRd := "", ""
	if it.Gloss != nil {
		gl, glRd = it.Gloss.Text, it.Gloss.Reading
	}

	query, args := builder().Insert(tableVocabItems).
		Columns(vocabColumns...).
		Values(it.ID, it.Owner, it.Thai, it.Romanization, it.Translation, ex, exTr, gl, glRd, it.CreatedAt).
		OnConflict(entsql.ConflictColumns("owner", "thai"), entsql.DoNothing()).
		Query()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert vocab item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert vocab item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("word %q: %w", it.Thai, ErrDuplicate)
	}
	return nil
}

// Import inserts items for owner in one transaction, skipping words the
// owner already has. It returns the number of items added.
func (r *VocabRepo) Import(ctx context.Context, owner string, items []vocab.Item) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for i := range items {
		it := items[i]
		it.ID = ""
		it.Owner = owner
		err := r.create(ctx, tx, &it)
		switch {
		case errors.Is(err, ErrDuplicate):
			continue
		case err != nil:
			return 0, fmt.Errorf("item %d: %w", i+1, err)
		}
		added++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return added, nil
}

// Update overwrites the mutable fields of the item with it.ID.
func (r *VocabRepo) Update(ctx context.Context, it vocab.Item) error {
	if err := it.Validate(); err != nil {
		return fmt.Errorf("invalid item %q: %w", it.Thai, err)
	}
	ex, exTr := "", ""
	if it.Example != nil {
		ex, exTr = it.Example.Thai, it.Example.Translation
	}
	gl, glRd := "", ""
	if it.Gloss != nil {
		gl, glRd = it.Gloss.Text, it.Gloss.Reading
	}

	query, args := builder().Update(tableVocabItems).
		Set("thai", it.Key()).
		Set("romanization", it.Romanization).
		Set("translation", it.Translation).
		Set("example_thai", ex).
		Set("example_translation", exTr).
		Set("gloss_text", gl).
		Set("gloss_reading", glRd).
		Where(entsql.EQ("id", it.ID)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("word %q: %w", it.Thai, ErrDuplicate)
		}
		return fmt.Errorf("update vocab item: %w", err)
	}
	return expectRow(res, "vocab item", it.ID)
}

// Delete removes the item and its daily-set entries.
func (r *VocabRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	query, args := builder().Delete(tableDailyWords).Where(entsql.EQ("item_id", id)).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete daily words: %w", err)
	}
	query, args = builder().Delete(tableVocabItems).Where(entsql.EQ("id", id)).Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete vocab item: %w", err)
	}
	if err := expectRow(res, "vocab item", id); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns the owner's items, oldest first.
func (r *VocabRepo) List(ctx context.Context, f vocab.Filter) ([]vocab.Item, error) {
	sel := builder().Select(vocabColumns...).
		From(builder().Table(tableVocabItems)).
		Where(entsql.EQ("owner", f.Owner)).
		OrderBy("created_at", "thai")
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}
	query, args := sel.Query()
	return r.queryItems(ctx, query, args)
}

// Get returns the item with id, or ErrNotFound.
func (r *VocabRepo) Get(ctx context.Context, id string) (*vocab.Item, error) {
	query, args := builder().Select(vocabColumns...).
		From(builder().Table(tableVocabItems)).
		Where(entsql.EQ("id", id)).
		Query()
	return r.one(ctx, query, args, id)
}

// FindByThai returns the owner's item for a word, or ErrNotFound.
func (r *VocabRepo) FindByThai(ctx context.Context, owner, thai string) (*vocab.Item, error) {
	thai = strings.TrimSpace(thai)
	query, args := builder().Select(vocabColumns...).
		From(builder().Table(tableVocabItems)).
		Where(entsql.And(entsql.EQ("owner", owner), entsql.EQ("thai", thai))).
		Query()
	return r.one(ctx, query, args, thai)
}

func (r *VocabRepo) one(ctx context.Context, query string, args []any, key string) (*vocab.Item, error) {
	items, err := r.queryItems(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("vocab item %q: %w", key, ErrNotFound)
	}
	return &items[0], nil
}

// AddDaily appends items to the word set of date (YYYY-MM-DD). Items
// already in the set are skipped.
func (r *VocabRepo) AddDaily(ctx context.Context, date string, ids ...string) error {
	if _, err := time.Parse(vocab.DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add daily: %w", err)
	}
	defer tx.Rollback()

	query, args := builder().Select(entsql.Count("*")).
		From(builder().Table(tableDailyWords)).
		Where(entsql.EQ("date", date)).
		Query()
	var pos int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&pos); err != nil {
		return fmt.Errorf("count daily words: %w", err)
	}

	for _, id := range ids {
		query, args := builder().Select("id").
			From(builder().Table(tableVocabItems)).
			Where(entsql.EQ("id", id)).
			Query()
		var found string
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("vocab item %q: %w", id, ErrNotFound)
			}
			return fmt.Errorf("lookup vocab item: %w", err)
		}

		query, args = builder().Insert(tableDailyWords).
			Columns("date", "item_id", "position").
			Values(date, id, pos).
			OnConflict(entsql.ConflictColumns("date", "item_id"), entsql.DoNothing()).
			Query()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert daily word: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			pos++
		}
	}
	return tx.Commit()
}

// ListDaily returns the dated word sets within f, ascending by date.
func (r *VocabRepo) ListDaily(ctx context.Context, f vocab.DailyFilter) ([]vocab.DailySet, error) {
	d := builder().Table(tableDailyWords)
	v := builder().Table(tableVocabItems)

	cols := []string{d.C("date")}
	for _, c := range vocabColumns {
		cols = append(cols, v.C(c))
	}
	preds := []*entsql.Predicate{entsql.EQ(v.C("owner"), f.Owner)}
	if f.From != "" {
		preds = append(preds, entsql.GTE(d.C("date"), f.From))
	}
	if f.To != "" {
		preds = append(preds, entsql.LTE(d.C("date"), f.To))
	}

	sel := builder().Select(cols...).
		From(d).
		Join(v).On(d.C("item_id"), v.C("id")).
		Where(entsql.And(preds...)).
		OrderBy(d.C("date"), d.C("position"))
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily words: %w", err)
	}
	defer rows.Close()

	var sets []vocab.DailySet
	for rows.Next() {
		var date string
		it, err := scanItem(rows, &date)
		if err != nil {
			return nil, err
		}
		if n := len(sets); n == 0 || sets[n-1].Date != date {
			sets = append(sets, vocab.DailySet{Date: date})
		}
		last := &sets[len(sets)-1]
		last.Items = append(last.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily words: %w", err)
	}
	return sets, nil
}

func (r *VocabRepo) queryItems(ctx context.Context, query string, args []any) ([]vocab.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vocab items: %w", err)
	}
	defer rows.Close()

	items := []vocab.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vocab items: %w", err)
	}
	return items, nil
}

// scanItem scans vocabColumns, preceded by any extra destinations.
func scanItem(rows *sql.Rows, extra ...any) (vocab.Item, error) {
	var (
		it              vocab.Item
		ex, exTr        string
		gloss, glossRdg string
	)
	dest := append(extra,
		&it.ID, &it.Owner, &it.Thai, &it.Romanization, &it.Translation,
		&ex, &exTr, &gloss, &glossRdg, &it.CreatedAt,
	)
	if err := rows.Scan(dest...); err != nil {
		return vocab.Item{}, fmt.Errorf("scan vocab item: %w", err)
	}
	if ex != "" {
		it.Example = &vocab.Example{Thai: ex, Translation: exTr}
	}
	if gloss != "" {
		it.Gloss = &vocab.Gloss{Text: gloss, Reading: glossRdg}
	}
	return it, nil
}

func expectRow(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %q: %w", what, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
	}
	return nil
}
