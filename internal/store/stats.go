package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// missedLimit caps Stats.Missed.
const missedLimit = 5

// ownerSessions selects the session IDs of the owner's quiz runs.
func ownerSessions(owner string) *entsql.Selector {
	return builder().Select("session_id").
		From(builder().Table(tableQuizEvents)).
		Where(entsql.And(
			entsql.EQ("owner", owner),
			entsql.EQ("action", ActionStart),
		))
}

// Stats summarizes the owner's quiz history.
func (r *EventRepo) Stats(ctx context.Context, owner string) (Stats, error) {
	var st Stats

	query, args := builder().Select(entsql.Count("*"), "COALESCE(SUM(`duration_secs`), 0)").
		From(builder().Table(tableQuizEvents)).
		Where(entsql.And(
			entsql.EQ("owner", owner),
			entsql.EQ("action", ActionEnd),
		)).
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&st.Quizzes, &st.TotalSeconds); err != nil {
		return Stats{}, fmt.Errorf("query quiz totals: %w", err)
	}

	query, args = builder().Select("kind", entsql.Count("*"), "COALESCE(SUM(`had_wrong`), 0)").
		From(builder().Table(tableAnswers)).
		Where(entsql.In("session_id", ownerSessions(owner))).
		GroupBy("kind").
		OrderBy("kind").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Stats{}, fmt.Errorf("query answers by kind: %w", err)
	}
	for rows.Next() {
		var ks KindStats
		var wrong int
		if err := rows.Scan(&ks.Kind, &ks.Answers, &wrong); err != nil {
			rows.Close()
			return Stats{}, fmt.Errorf("scan kind stats: %w", err)
		}
		ks.FirstTry = ks.Answers - wrong
		st.ByKind = append(st.ByKind, ks)
		st.Answers += ks.Answers
		st.FirstTry += ks.FirstTry
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate kind stats: %w", err)
	}

	query, args = builder().Select("COUNT(DISTINCT `item_id`)").
		From(builder().Table(tableAnswers)).
		Where(entsql.And(
			entsql.NEQ("item_id", ""),
			entsql.In("session_id", ownerSessions(owner)),
		)).
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&st.WordsSeen); err != nil {
		return Stats{}, fmt.Errorf("query words seen: %w", err)
	}

	a := builder().Table(tableAnswers)
	v := builder().Table(tableVocabItems)
	query, args = builder().Select(a.C("item_id"), v.C("thai"), entsql.Count("*")).
		From(a).
		Join(v).On(a.C("item_id"), v.C("id")).
		Where(entsql.And(
			entsql.EQ(a.C("had_wrong"), true),
			entsql.In(a.C("session_id"), ownerSessions(owner)),
		)).
		GroupBy(a.C("item_id"), v.C("thai")).
		OrderBy(entsql.Desc(entsql.Count("*")), v.C("thai")).
		Limit(missedLimit).
		Query()
	rows, err = r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Stats{}, fmt.Errorf("query missed words: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m MissedItem
		if err := rows.Scan(&m.ItemID, &m.Thai, &m.Misses); err != nil {
			return Stats{}, fmt.Errorf("scan missed word: %w", err)
		}
		st.Missed = append(st.Missed, m)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate missed words: %w", err)
	}
	return st, nil
}
