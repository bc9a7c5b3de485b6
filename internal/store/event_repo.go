package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by SQLite and the global sequence
// counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) insert(ctx context.Context, table string, cols []string, vals []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ins := builder.Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seqNum, r.now().UTC()}, vals...)...)
	if _, err := exec(ctx, r.db, ins); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	return r.insert(ctx, attemptEventsTable.Name,
		[]string{"user_id", "item_id", "score", "total_questions", "perfect", "new_unlock"},
		[]any{data.UserID, data.ItemID, data.Score, data.TotalQuestions, data.Perfect, data.NewUnlock},
	)
}

func (r *eventRepo) AppendDiscovery(ctx context.Context, data DiscoveryEventData) error {
	return r.insert(ctx, discoveryEventsTable.Name,
		[]string{"user_id", "action", "total_unlocks", "phase", "detail"},
		[]any{data.UserID, data.Action, data.TotalUnlocks, data.Phase, data.Detail},
	)
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.insert(ctx, llmRequestEventsTable.Name,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message"},
		[]any{data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage},
	)
}

// selectEvents builds a newest-first query over an event table.
func selectEvents(table string, cols []string, opts QueryOpts, hasUser bool) *entsql.Selector {
	sel := builder.Select(append([]string{"sequence", "timestamp"}, cols...)...).
		From(entsql.Table(table)).
		OrderBy(entsql.Desc("sequence"))

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
	if hasUser && opts.UserID != "" {
		preds = append(preds, entsql.EQ("user_id", opts.UserID))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	return sel
}

func (r *eventRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptEventRecord, error) {
	sel := selectEvents(attemptEventsTable.Name,
		[]string{"user_id", "item_id", "score", "total_questions", "perfect", "new_unlock"}, opts, true)
	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	defer rows.Close()

	var records []AttemptEventRecord
	for rows.Next() {
		var rec AttemptEventRecord
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.UserID, &rec.ItemID,
			&rec.Score, &rec.TotalQuestions, &rec.Perfect, &rec.NewUnlock); err != nil {
			return nil, fmt.Errorf("scan attempt event: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) QueryDiscovery(ctx context.Context, opts QueryOpts) ([]DiscoveryEventRecord, error) {
	sel := selectEvents(discoveryEventsTable.Name,
		[]string{"user_id", "action", "total_unlocks", "phase", "detail"}, opts, true)
	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query discovery events: %w", err)
	}
	defer rows.Close()

	var records []DiscoveryEventRecord
	for rows.Next() {
		var rec DiscoveryEventRecord
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.UserID, &rec.Action,
			&rec.TotalUnlocks, &rec.Phase, &rec.Detail); err != nil {
			return nil, fmt.Errorf("scan discovery event: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	sel := selectEvents(llmRequestEventsTable.Name,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message"}, opts, false)
	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query llm request events: %w", err)
	}
	defer rows.Close()

	var records []LLMRequestEventRecord
	for rows.Next() {
		var rec LLMRequestEventRecord
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.Provider, &rec.Model, &rec.Purpose,
			&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan llm request event: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
