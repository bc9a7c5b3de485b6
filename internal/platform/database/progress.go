package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abhisek/questmap/internal/discovery"
	"github.com/abhisek/questmap/internal/roadmap"
)

const progressSchema = `
CREATE TABLE IF NOT EXISTS completed_items (
	user_id      TEXT        NOT NULL,
	item_id      INTEGER     NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, item_id)
);
CREATE INDEX IF NOT EXISTS completed_items_item_id_idx ON completed_items (item_id);
CREATE TABLE IF NOT EXISTS discovery_states (
	user_id         TEXT    PRIMARY KEY,
	total_unlocks   INTEGER NOT NULL DEFAULT 0,
	acknowledged_at INTEGER NOT NULL DEFAULT 0,
	visible         BOOLEAN NOT NULL DEFAULT TRUE
);`

// ProgressStore keeps progress in Postgres. Each mutation runs in one
// transaction that locks the user's discovery row first, so concurrent
// completions for a user are serialized.
type ProgressStore struct {
	db *DB
}

// NewProgressStore creates the progress tables if needed.
func NewProgressStore(ctx context.Context, db *DB) (*ProgressStore, error) {
	if _, err := db.Pool.Exec(ctx, progressSchema); err != nil {
		return nil, fmt.Errorf("create progress tables: %w", err)
	}
	return &ProgressStore{db: db}, nil
}

func (s *ProgressStore) CompletedItems(ctx context.Context, userID string) (roadmap.CompletedSet, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT item_id FROM completed_items WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("query completed items: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("scan completed items: %w", err)
	}
	return roadmap.NewCompletedSet(ids...), nil
}

func (s *ProgressStore) DiscoveryState(ctx context.Context, userID string) (discovery.State, error) {
	return readState(ctx, s.db.Pool.QueryRow(ctx,
		`SELECT total_unlocks, acknowledged_at, visible FROM discovery_states WHERE user_id = $1`, userID))
}

func (s *ProgressStore) RecordUnlock(ctx context.Context, userID string, itemID int, apply func(discovery.State) discovery.State) (bool, discovery.State, error) {
	var (
		added bool
		st    discovery.State
	)
	err := pgx.BeginFunc(ctx, s.db.Pool, func(tx pgx.Tx) error {
		var err error
		st, err = lockState(ctx, tx, userID)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`INSERT INTO completed_items (user_id, item_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, itemID)
		if err != nil {
			return fmt.Errorf("insert completed item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		added = true
		st = apply(st)
		return writeState(ctx, tx, userID, st)
	})
	if err != nil {
		return false, discovery.State{}, fmt.Errorf("record unlock: %w", err)
	}
	return added, st, nil
}

func (s *ProgressStore) UpdateDiscoveryState(ctx context.Context, userID string, fn func(discovery.State) discovery.State) (discovery.State, error) {
	var st discovery.State
	err := pgx.BeginFunc(ctx, s.db.Pool, func(tx pgx.Tx) error {
		cur, err := lockState(ctx, tx, userID)
		if err != nil {
			return err
		}
		st = fn(cur)
		return writeState(ctx, tx, userID, st)
	})
	if err != nil {
		return discovery.State{}, fmt.Errorf("update discovery state: %w", err)
	}
	return st, nil
}

// RemoveItems drops the items from every user's completed set.
func (s *ProgressStore) RemoveItems(ctx context.Context, itemIDs []int) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM completed_items WHERE item_id = ANY($1)`, itemIDs); err != nil {
		return fmt.Errorf("delete completed items: %w", err)
	}
	return nil
}

// lockState makes sure the user's row exists and locks it for the rest of
// the transaction.
func lockState(ctx context.Context, tx pgx.Tx, userID string) (discovery.State, error) {
	fresh := discovery.NewState()
	if _, err := tx.Exec(ctx,
		`INSERT INTO discovery_states (user_id, visible) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, fresh.Visible); err != nil {
		return discovery.State{}, fmt.Errorf("ensure discovery state: %w", err)
	}
	return readState(ctx, tx.QueryRow(ctx,
		`SELECT total_unlocks, acknowledged_at, visible FROM discovery_states WHERE user_id = $1 FOR UPDATE`, userID))
}

func writeState(ctx context.Context, tx pgx.Tx, userID string, st discovery.State) error {
	_, err := tx.Exec(ctx,
		`UPDATE discovery_states SET total_unlocks = $2, acknowledged_at = $3, visible = $4 WHERE user_id = $1`,
		userID, st.TotalUnlocks, st.AcknowledgedAt, st.Visible)
	if err != nil {
		return fmt.Errorf("write discovery state: %w", err)
	}
	return nil
}

func readState(_ context.Context, row pgx.Row) (discovery.State, error) {
	var st discovery.State
	err := row.Scan(&st.TotalUnlocks, &st.AcknowledgedAt, &st.Visible)
	if errors.Is(err, pgx.ErrNoRows) {
		return discovery.NewState(), nil
	}
	if err != nil {
		return discovery.State{}, fmt.Errorf("read discovery state: %w", err)
	}
	return st, nil
}
