package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/questmap/internal/roadmap"
)

// RoadmapRepo stores roadmaps and their items.
type RoadmapRepo struct {
	db  *sql.DB
	now func() time.Time
}

// Create inserts the roadmap and its items, assigning ids in place.
func (r *RoadmapRepo) Create(ctx context.Context, rm *roadmap.Roadmap) error {
	if err := roadmap.Validate(rm); err != nil {
		return err
	}
	if rm.CreatedAt.IsZero() {
		rm.CreatedAt = r.now().UTC()
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := exec(ctx, tx, builder.Insert(roadmapsTable.Name).
			Columns("user_id", "topic", "experience", "created_at").
			Values(rm.UserID, rm.Topic, rm.Experience, rm.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert roadmap: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("roadmap id: %w", err)
		}
		rm.ID = int(id)

		for i := range rm.Items {
			it := &rm.Items[i]
			material, err := json.Marshal(it.StudyMaterial)
			if err != nil {
				return fmt.Errorf("encode study material: %w", err)
			}
			res, err := exec(ctx, tx, builder.Insert(roadmapItemsTable.Name).
				Columns("roadmap_id", "title", "summary", "level", "study_material").
				Values(rm.ID, it.Title, it.Summary, it.Level, string(material)))
			if err != nil {
				return fmt.Errorf("insert item %q: %w", it.Title, err)
			}
			itemID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("item id: %w", err)
			}
			it.ID = int(itemID)
			it.RoadmapID = rm.ID
		}
		return nil
	})
}

// Get returns one roadmap with its items, or ErrNotFound.
func (r *RoadmapRepo) Get(ctx context.Context, id int) (*roadmap.Roadmap, error) {
	rm := &roadmap.Roadmap{}
	err := queryRow(ctx, r.db, builder.Select("id", "user_id", "topic", "experience", "created_at").
		From(entsql.Table(roadmapsTable.Name)).
		Where(entsql.EQ("id", id))).
		Scan(&rm.ID, &rm.UserID, &rm.Topic, &rm.Experience, &rm.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("roadmap %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get roadmap %d: %w", id, err)
	}

	items, err := r.items(ctx, entsql.EQ("roadmap_id", id))
	if err != nil {
		return nil, err
	}
	rm.Items = items[id]
	return rm, nil
}

// List returns every roadmap with its items, in id order.
func (r *RoadmapRepo) List(ctx context.Context) ([]roadmap.Roadmap, error) {
	rows, err := query(ctx, r.db, builder.Select("id", "user_id", "topic", "experience", "created_at").
		From(entsql.Table(roadmapsTable.Name)).
		OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("list roadmaps: %w", err)
	}

	var result []roadmap.Roadmap
	for rows.Next() {
		var rm roadmap.Roadmap
		if err := rows.Scan(&rm.ID, &rm.UserID, &rm.Topic, &rm.Experience, &rm.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan roadmap: %w", err)
		}
		result = append(result, rm)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.items(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

// Item returns a single item, or ErrNotFound.
func (r *RoadmapRepo) Item(ctx context.Context, itemID int) (roadmap.Item, error) {
	items, err := r.items(ctx, entsql.EQ("id", itemID))
	if err != nil {
		return roadmap.Item{}, err
	}
	for _, list := range items {
		if len(list) > 0 {
			return list[0], nil
		}
	}
	return roadmap.Item{}, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
}

// ItemExists reports whether an item with the given id exists.
func (r *RoadmapRepo) ItemExists(ctx context.Context, itemID int) (bool, error) {
	_, err := r.Item(ctx, itemID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes the roadmap and its items. It returns the ids of the
// removed items so dependent stores can cascade.
func (r *RoadmapRepo) Delete(ctx context.Context, id int) ([]int, error) {
	var itemIDs []int
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := query(ctx, tx, builder.Select("id").
			From(entsql.Table(roadmapItemsTable.Name)).
			Where(entsql.EQ("roadmap_id", id)))
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		for rows.Next() {
			var itemID int
			if err := rows.Scan(&itemID); err != nil {
				rows.Close()
				return err
			}
			itemIDs = append(itemIDs, itemID)
		}
		rows.Close()

		res, err := exec(ctx, tx, builder.Delete(roadmapsTable.Name).Where(entsql.EQ("id", id)))
		if err != nil {
			return fmt.Errorf("delete roadmap: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("roadmap %d: %w", id, ErrNotFound)
		}
		// Items go with the foreign key cascade; delete explicitly as well
		// in case the connection was opened without foreign keys.
		if _, err := exec(ctx, tx, builder.Delete(roadmapItemsTable.Name).Where(entsql.EQ("roadmap_id", id))); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return itemIDs, nil
}

// items loads items matching pred (all when nil), grouped by roadmap id.
func (r *RoadmapRepo) items(ctx context.Context, pred *entsql.Predicate) (map[int][]roadmap.Item, error) {
	sel := builder.Select("id", "roadmap_id", "title", "summary", "level", "study_material").
		From(entsql.Table(roadmapItemsTable.Name)).
		OrderBy("level", "id")
	if pred != nil {
		sel = sel.Where(pred)
	}

	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	result := make(map[int][]roadmap.Item)
	for rows.Next() {
		var (
			it       roadmap.Item
			material sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.RoadmapID, &it.Title, &it.Summary, &it.Level, &material); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if material.Valid && material.String != "" {
			if err := json.Unmarshal([]byte(material.String), &it.StudyMaterial); err != nil {
				return nil, fmt.Errorf("decode study material of item %d: %w", it.ID, err)
			}
		}
		result[it.RoadmapID] = append(result[it.RoadmapID], it)
	}
	return result, rows.Err()
}
