package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// EventRepo provides append and query access to domain events. Every event
// carries a global sequence number.
type EventRepo struct {
	db  *sql.DB
	seq *counter
}

// appendEvent inserts one event row, prefixing the sequence and timestamp.
func (r *EventRepo) appendEvent(ctx context.Context, table string, columns []string, values ...any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, columns...)...).
		Values(append([]any{seqNum, time.Now().UTC()}, values...)...).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// applyOpts narrows sel by opts and orders newest first.
func applyOpts(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

var llmColumns = []string{
	"provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

// AppendLLMRequest records an LLM API call event.
func (r *EventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.appendEvent(ctx, tableLLMRequests, llmColumns,
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
		data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
}

// QueryLLMEvents returns LLM events, newest first.
func (r *EventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	sel := builder().Select(append([]string{"id", "sequence", "timestamp"}, llmColumns...)...).
		From(builder().Table(tableLLMRequests))
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	query, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var events []LLMEvent
	for rows.Next() {
		var e LLMEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
			&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
		); err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetLLMEvent returns one LLM event by ID, or nil if it does not exist.
func (r *EventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	query, args := builder().Select(append([]string{"id", "sequence", "timestamp"}, llmColumns...)...).
		From(builder().Table(tableLLMRequests)).
		Where(entsql.EQ("id", id)).
		Query()

	var e LLMEvent
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&e.ID, &e.Sequence, &e.Timestamp,
		&e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
		&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return &e, nil
}

// LLMUsageByPurpose aggregates token usage and latency per purpose.
func (r *EventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	query, args := builder().Select(
		"purpose",
		entsql.Count("*"),
		entsql.Sum("input_tokens"),
		entsql.Sum("output_tokens"),
		entsql.Avg("latency_ms"),
	).
		From(builder().Table(tableLLMRequests)).
		GroupBy("purpose").
		OrderBy("purpose").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []PurposeUsage
	for rows.Next() {
		var u PurposeUsage
		var avg float64
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.AvgLatencyMs = int64(avg)
		out = append(out, u)
	}
	return out, rows.Err()
}

// LLMUsageByModel aggregates token usage per model.
func (r *EventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	query, args := builder().Select(
		"model",
		entsql.Count("*"),
		entsql.Sum("input_tokens"),
		entsql.Sum("output_tokens"),
	).
		From(builder().Table(tableLLMRequests)).
		GroupBy("model").
		OrderBy("model").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

var quizColumns = []string{
	"session_id", "owner", "action", "kind", "source", "total", "correct", "wrong", "duration_secs",
}

// AppendQuizEvent records a quiz start or end event.
func (r *EventRepo) AppendQuizEvent(ctx context.Context, data QuizEventData) error {
	if data.Source == "" {
		data.Source = "local"
	}
	return r.appendEvent(ctx, tableQuizEvents, quizColumns,
		data.SessionID, data.Owner, data.Action, data.Kind, data.Source,
		data.Total, data.Correct, data.Wrong, data.DurationSecs,
	)
}

// QueryQuizEvents returns the owner's quiz events, newest first.
func (r *EventRepo) QueryQuizEvents(ctx context.Context, owner string, opts QueryOpts) ([]QuizEvent, error) {
	sel := builder().Select(append([]string{"id", "sequence", "timestamp"}, quizColumns...)...).
		From(builder().Table(tableQuizEvents))
	query, args := applyOpts(sel, opts).Where(entsql.EQ("owner", owner)).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz events: %w", err)
	}
	defer rows.Close()

	var events []QuizEvent
	for rows.Next() {
		var e QuizEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.SessionID, &e.Owner, &e.Action, &e.Kind, &e.Source,
			&e.Total, &e.Correct, &e.Wrong, &e.DurationSecs,
		); err != nil {
			return nil, fmt.Errorf("scan quiz event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

var answerColumns = []string{
	"session_id", "question_index", "kind", "item_id", "prompt", "answer", "had_wrong", "attempts",
}

// AppendAnswerEvent records one answered question.
func (r *EventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	if data.Attempts < 1 {
		data.Attempts = 1
	}
	return r.appendEvent(ctx, tableAnswers, answerColumns,
		data.SessionID, data.QuestionIndex, data.Kind, data.ItemID,
		data.Prompt, data.Answer, data.HadWrong, data.Attempts,
	)
}

// SessionAnswers returns the answers of one quiz run in question order.
func (r *EventRepo) SessionAnswers(ctx context.Context, sessionID string) ([]AnswerEvent, error) {
	query, args := builder().Select(append([]string{"id", "sequence", "timestamp"}, answerColumns...)...).
		From(builder().Table(tableAnswers)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("question_index", "sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var e AnswerEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.SessionID, &e.QuestionIndex, &e.Kind, &e.ItemID,
			&e.Prompt, &e.Answer, &e.HadWrong, &e.Attempts,
		); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Reset deletes quiz history. With llm set, the LLM audit log goes too.
// It returns the number of rows removed.
func (r *EventRepo) Reset(ctx context.Context, llm bool) (int64, error) {
	tables := []string{tableAnswers, tableQuizEvents}
	if llm {
		tables = append(tables, tableLLMRequests)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	var total int64
	for _, t := range tables {
		query, args := builder().Delete(t).Query()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("clear %s: %w", t, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reset: %w", err)
	}
	return total, nil
}
