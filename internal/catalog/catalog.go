// Package catalog owns roadmaps and the knowledge graph built from them.
// It keeps the two in step on import and cascades deletions into the
// progress store.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/questmap/internal/knowledgegraph"
	"github.com/abhisek/questmap/internal/platform/logger"
	"github.com/abhisek/questmap/internal/roadmap"
	"github.com/abhisek/questmap/internal/store"
)

// ErrNotFound is returned for unknown roadmaps.
var ErrNotFound = store.ErrNotFound

// ItemRemover is the part of a progress store a deletion cascades into.
type ItemRemover interface {
	RemoveItems(ctx context.Context, itemIDs []int) error
}

// Service is the roadmap catalog.
type Service struct {
	roadmaps *store.RoadmapRepo
	graph    *store.GraphRepo
	progress ItemRemover
	linker   knowledgegraph.Linker
	log      *logger.Logger
}

// New creates a catalog over the SQLite store. progress receives deletion
// cascades; linker may be nil, in which case imports add no cross-roadmap
// edges.
func New(s *store.Store, progress ItemRemover, linker knowledgegraph.Linker, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		roadmaps: s.Roadmaps(),
		graph:    s.Graph(),
		progress: progress,
		linker:   linker,
		log:      log,
	}
}

// ImportResult describes one imported roadmap.
type ImportResult struct {
	Roadmap *roadmap.Roadmap `json:"roadmap"`
	Nodes   int              `json:"nodes_added"`
	Links   int              `json:"links_added"`
}

// Import stores the roadmap, assigning ids in place, and merges it into the
// knowledge graph. A failing linker only costs the cross-roadmap edges.
func (s *Service) Import(ctx context.Context, r *roadmap.Roadmap) (ImportResult, error) {
	if err := s.roadmaps.Create(ctx, r); err != nil {
		return ImportResult{}, fmt.Errorf("store roadmap: %w", err)
	}
	res := ImportResult{Roadmap: r}

	g, err := s.graph.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("load graph: %w", err)
	}
	existing := g.TitleNodes()
	added := knowledgegraph.AddRoadmap(g, r)
	res.Nodes = len(added) + 1

	if s.linker != nil && len(existing) > 0 {
		proposed, err := s.linker.Link(ctx, added, existing)
		if err != nil {
			s.log.Warn("linking roadmap into graph failed", "roadmap_id", r.ID, "error", err)
		} else {
			res.Links = len(knowledgegraph.Connect(g, proposed))
		}
	}

	if err := s.graph.Save(ctx, g); err != nil {
		return res, fmt.Errorf("save graph: %w", err)
	}
	s.log.Info("roadmap imported", "roadmap_id", r.ID, "topic", r.Topic, "items", len(r.Items), "links", res.Links)
	return res, nil
}

// Delete removes the roadmap, its graph nodes and every user's completion
// of its items. Discovery counters are not rolled back.
func (s *Service) Delete(ctx context.Context, id int) error {
	itemIDs, err := s.roadmaps.Delete(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.graph.RemoveRoadmap(ctx, id); err != nil {
		return fmt.Errorf("remove roadmap %d from graph: %w", id, err)
	}
	if s.progress != nil {
		if err := s.progress.RemoveItems(ctx, itemIDs); err != nil {
			return fmt.Errorf("remove completions of roadmap %d: %w", id, err)
		}
	}
	s.log.Info("roadmap deleted", "roadmap_id", id, "items", len(itemIDs))
	return nil
}

// Get returns one roadmap.
func (s *Service) Get(ctx context.Context, id int) (*roadmap.Roadmap, error) {
	return s.roadmaps.Get(ctx, id)
}

// List returns every roadmap in id order.
func (s *Service) List(ctx context.Context) ([]roadmap.Roadmap, error) {
	return s.roadmaps.List(ctx)
}

// ItemExists reports whether any roadmap contains the item.
func (s *Service) ItemExists(ctx context.Context, itemID int) (bool, error) {
	return s.roadmaps.ItemExists(ctx, itemID)
}

// Map evaluates one roadmap against a completed set.
func (s *Service) Map(ctx context.Context, id int, completed roadmap.CompletedSet) (roadmap.Status, error) {
	r, err := s.roadmaps.Get(ctx, id)
	if err != nil {
		return roadmap.Status{}, err
	}
	return roadmap.Evaluate(r, completed), nil
}

// Progress returns the level progress of one roadmap.
func (s *Service) Progress(ctx context.Context, id int, completed roadmap.CompletedSet) (roadmap.LevelProgress, error) {
	r, err := s.roadmaps.Get(ctx, id)
	if err != nil {
		return roadmap.LevelProgress{}, err
	}
	return roadmap.Progress(r, completed), nil
}

// Graph returns the stored, unfiltered graph.
func (s *Service) Graph(ctx context.Context) (*knowledgegraph.Graph, error) {
	return s.graph.Load(ctx)
}

// Projected returns the fog-of-war view of the graph for a completed set.
// Item nodes whose ids cannot be mapped to items are logged and stay locked.
func (s *Service) Projected(ctx context.Context, completed roadmap.CompletedSet) (knowledgegraph.Projection, error) {
	g, err := s.graph.Load(ctx)
	if err != nil {
		return knowledgegraph.Projection{}, fmt.Errorf("load graph: %w", err)
	}
	p := knowledgegraph.Project(g.Nodes, g.Edges, completed)
	if len(p.Malformed) > 0 {
		s.log.Warn("graph has item nodes without a backing item", "count", len(p.Malformed), "ids", p.Malformed)
	}
	return p, nil
}

// Rebuild regenerates the graph from the stored roadmaps. Cross-roadmap
// edges whose endpoints still exist are carried over.
func (s *Service) Rebuild(ctx context.Context) (*knowledgegraph.Graph, error) {
	roadmaps, err := s.roadmaps.List(ctx)
	if err != nil {
		return nil, err
	}
	old, err := s.graph.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	g := knowledgegraph.Build(roadmaps)
	var cross []knowledgegraph.Edge
	for _, e := range old.Edges {
		if e.Relationship != knowledgegraph.RelContains {
			cross = append(cross, e)
		}
	}
	kept := knowledgegraph.Connect(g, cross)
	if dropped := len(cross) - len(kept); dropped > 0 {
		s.log.Info("dropped stale graph edges", "count", dropped)
	}

	if err := s.graph.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("save graph: %w", err)
	}
	return g, nil
}

// IsNotFound reports whether err means a roadmap or item does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
