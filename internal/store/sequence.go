package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// eventCounter names the row in the counters table that numbers events.
// Each event kind has its own table, so row IDs alone cannot say whether an
// LLM call came before or after an answer.
const eventCounter = "events"

// counter hands out values of one named row in the counters table. The
// upsert increments and reads in a single statement, so separate processes
// sharing the database file never receive the same value.
type counter struct {
	db   *sql.DB
	name string
}

// Next returns the following value, starting at 1.
func (c *counter) Next(ctx context.Context) (int64, error) {
	query, args := builder().Insert(tableCounters).
		Columns("name", "value").
		Values(c.name, 1).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) { u.Add("value", 1) }),
		).
		Returning("value").
		Query()

	var v int64
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		return 0, fmt.Errorf("advance counter %s: %w", c.name, err)
	}
	return v, nil
}
