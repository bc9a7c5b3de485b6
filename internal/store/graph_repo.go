package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/questmap/internal/knowledgegraph"
)

// GraphRepo persists the knowledge graph.
type GraphRepo struct {
	db *sql.DB
}

// Load returns the full stored graph.
func (r *GraphRepo) Load(ctx context.Context) (*knowledgegraph.Graph, error) {
	g := &knowledgegraph.Graph{}

	rows, err := query(ctx, r.db, builder.Select("id", "label", "node_type", "roadmap_id", "group_index").
		From(entsql.Table(graphNodesTable.Name)).
		OrderBy("roadmap_id", "id"))
	if err != nil {
		return nil, fmt.Errorf("query graph nodes: %w", err)
	}
	for rows.Next() {
		var (
			n     knowledgegraph.Node
			typ   string
			group sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.Label, &typ, &n.RoadmapID, &group); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan graph node: %w", err)
		}
		n.Type = knowledgegraph.NodeType(typ)
		if group.Valid {
			gi := int(group.Int64)
			n.Group = &gi
		}
		g.Nodes = append(g.Nodes, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = query(ctx, r.db, builder.Select("source", "target", "relationship", "weight").
		From(entsql.Table(graphEdgesTable.Name)).
		OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("query graph edges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			e   knowledgegraph.Edge
			rel string
		)
		if err := rows.Scan(&e.Source, &e.Target, &rel, &e.Weight); err != nil {
			return nil, fmt.Errorf("scan graph edge: %w", err)
		}
		e.Relationship = knowledgegraph.Relationship(rel)
		g.Edges = append(g.Edges, e)
	}
	return g, rows.Err()
}

// Save replaces the stored graph with g.
func (r *GraphRepo) Save(ctx context.Context, g *knowledgegraph.Graph) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := exec(ctx, tx, builder.Delete(graphEdgesTable.Name)); err != nil {
			return fmt.Errorf("clear edges: %w", err)
		}
		if _, err := exec(ctx, tx, builder.Delete(graphNodesTable.Name)); err != nil {
			return fmt.Errorf("clear nodes: %w", err)
		}
		return insertGraph(ctx, tx, g.Nodes, g.Edges)
	})
}

// Merge adds nodes and edges without touching existing rows. Conflicting
// node ids and duplicate edges are ignored.
func (r *GraphRepo) Merge(ctx context.Context, nodes []knowledgegraph.Node, edges []knowledgegraph.Edge) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return insertGraph(ctx, tx, nodes, edges)
	})
}

// RemoveRoadmap deletes the roadmap's nodes and every edge touching them.
// It returns the number of nodes removed.
func (r *GraphRepo) RemoveRoadmap(ctx context.Context, roadmapID int) (int, error) {
	var removed int
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := query(ctx, tx, builder.Select("id").
			From(entsql.Table(graphNodesTable.Name)).
			Where(entsql.EQ("roadmap_id", roadmapID)))
		if err != nil {
			return err
		}
		var ids []any
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		rows.Close()
		if len(ids) == 0 {
			return nil
		}
		removed = len(ids)

		if _, err := exec(ctx, tx, builder.Delete(graphEdgesTable.Name).
			Where(entsql.Or(entsql.In("source", ids...), entsql.In("target", ids...)))); err != nil {
			return fmt.Errorf("delete edges: %w", err)
		}
		if _, err := exec(ctx, tx, builder.Delete(graphNodesTable.Name).
			Where(entsql.EQ("roadmap_id", roadmapID))); err != nil {
			return fmt.Errorf("delete nodes: %w", err)
		}
		return nil
	})
	return removed, err
}

func insertGraph(ctx context.Context, tx *sql.Tx, nodes []knowledgegraph.Node, edges []knowledgegraph.Edge) error {
	for _, n := range nodes {
		var group any
		if n.Group != nil {
			group = *n.Group
		}
		if _, err := exec(ctx, tx, builder.Insert(graphNodesTable.Name).
			Columns("id", "label", "node_type", "roadmap_id", "group_index").
			Values(n.ID, n.Label, string(n.Type), n.RoadmapID, group).
			OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing())); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}
	for _, e := range edges {
		if _, err := exec(ctx, tx, builder.Insert(graphEdgesTable.Name).
			Columns("source", "target", "relationship", "weight").
			Values(e.Source, e.Target, string(e.Relationship), e.Weight).
			OnConflict(entsql.ConflictColumns("source", "target"), entsql.DoNothing())); err != nil {
			return fmt.Errorf("insert edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}
	return nil
}
