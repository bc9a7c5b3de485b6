package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/questmap/internal/discovery"
	"github.com/abhisek/questmap/internal/roadmap"
)

// ProgressRepo keeps per-user completed sets and discovery state in SQLite.
// Each mutation runs in a single transaction so a completion is either
// fully applied or not at all.
type ProgressRepo struct {
	db  *sql.DB
	now func() time.Time
}

// CompletedItems returns the user's completed set.
func (r *ProgressRepo) CompletedItems(ctx context.Context, userID string) (roadmap.CompletedSet, error) {
	rows, err := query(ctx, r.db, builder.Select("item_id").
		From(entsql.Table(completedItemsTable.Name)).
		Where(entsql.EQ("user_id", userID)))
	if err != nil {
		return nil, fmt.Errorf("query completed items: %w", err)
	}
	defer rows.Close()

	set := roadmap.NewCompletedSet()
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan completed item: %w", err)
		}
		set.Add(id)
	}
	return set, rows.Err()
}

// DiscoveryState returns the user's discovery state, or a fresh state when
// none has been stored.
func (r *ProgressRepo) DiscoveryState(ctx context.Context, userID string) (discovery.State, error) {
	return readDiscoveryState(ctx, r.db, userID)
}

// RecordUnlock adds itemID to the user's completed set. Only when the item
// was not already present is apply run over the discovery state and the
// result stored, in the same transaction.
func (r *ProgressRepo) RecordUnlock(ctx context.Context, userID string, itemID int, apply func(discovery.State) discovery.State) (bool, discovery.State, error) {
	var (
		added bool
		st    discovery.State
	)
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := exec(ctx, tx, builder.Insert(completedItemsTable.Name).
			Columns("user_id", "item_id", "completed_at").
			Values(userID, itemID, r.now().UTC()).
			OnConflict(entsql.ConflictColumns("user_id", "item_id"), entsql.DoNothing()))
		if err != nil {
			return fmt.Errorf("insert completed item: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		added = n == 1

		st, err = readDiscoveryState(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !added {
			return nil
		}
		st = apply(st)
		return r.writeDiscoveryState(ctx, tx, userID, st)
	})
	if err != nil {
		return false, discovery.State{}, err
	}
	return added, st, nil
}

// UpdateDiscoveryState applies fn to the user's discovery state and stores
// the result atomically.
func (r *ProgressRepo) UpdateDiscoveryState(ctx context.Context, userID string, fn func(discovery.State) discovery.State) (discovery.State, error) {
	var st discovery.State
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		cur, err := readDiscoveryState(ctx, tx, userID)
		if err != nil {
			return err
		}
		st = fn(cur)
		return r.writeDiscoveryState(ctx, tx, userID, st)
	})
	return st, err
}

// RemoveItems drops the items from every user's completed set. Discovery
// counters are left as they are.
func (r *ProgressRepo) RemoveItems(ctx context.Context, itemIDs []int) error {
	if len(itemIDs) == 0 {
		return nil
	}
	args := make([]any, len(itemIDs))
	for i, id := range itemIDs {
		args[i] = id
	}
	if _, err := exec(ctx, r.db, builder.Delete(completedItemsTable.Name).
		Where(entsql.In("item_id", args...))); err != nil {
		return fmt.Errorf("delete completed items: %w", err)
	}
	return nil
}

func readDiscoveryState(ctx context.Context, db execer, userID string) (discovery.State, error) {
	var st discovery.State
	err := queryRow(ctx, db, builder.Select("total_unlocks", "acknowledged_at", "visible").
		From(entsql.Table(discoveryStatesTable.Name)).
		Where(entsql.EQ("user_id", userID))).
		Scan(&st.TotalUnlocks, &st.AcknowledgedAt, &st.Visible)
	if errors.Is(err, sql.ErrNoRows) {
		return discovery.NewState(), nil
	}
	if err != nil {
		return discovery.State{}, fmt.Errorf("read discovery state: %w", err)
	}
	return st, nil
}

func (r *ProgressRepo) writeDiscoveryState(ctx context.Context, db execer, userID string, st discovery.State) error {
	_, err := exec(ctx, db, builder.Insert(discoveryStatesTable.Name).
		Columns("user_id", "total_unlocks", "acknowledged_at", "visible", "updated_at").
		Values(userID, st.TotalUnlocks, st.AcknowledgedAt, st.Visible, r.now().UTC()).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.ResolveWithNewValues()))
	if err != nil {
		return fmt.Errorf("write discovery state: %w", err)
	}
	return nil
}
