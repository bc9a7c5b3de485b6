package knowledgegraph

import (
	"context"
	"sort"

	"github.com/abhisek/questmap/internal/roadmap"
)

// Linker proposes cross-roadmap relationships between freshly added item
// nodes and the item nodes already in the graph.
type Linker interface {
	Link(ctx context.Context, added, existing []Node) ([]Edge, error)
}

// Build constructs the graph from scratch. Roadmaps are grouped by their
// position in id order so colours are stable across rebuilds.
func Build(roadmaps []roadmap.Roadmap) *Graph {
	sorted := make([]roadmap.Roadmap, len(roadmaps))
	copy(sorted, roadmaps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	g := &Graph{}
	for i := range sorted {
		nodes, edges := roadmapNodes(&sorted[i], i)
		g.Nodes = append(g.Nodes, nodes...)
		g.Edges = append(g.Edges, edges...)
	}
	return g
}

// AddRoadmap merges one roadmap into the graph under the next free group and
// returns the item nodes it added. Re-adding a roadmap replaces it.
func AddRoadmap(g *Graph, r *roadmap.Roadmap) []Node {
	RemoveRoadmap(g, r.ID)

	next := 0
	for _, n := range g.Nodes {
		if gi := n.GroupIndex() + 1; gi > next {
			next = gi
		}
	}

	nodes, edges := roadmapNodes(r, next)
	g.Nodes = append(g.Nodes, nodes...)
	g.Edges = append(g.Edges, edges...)

	var added []Node
	for _, n := range nodes {
		if n.Type == NodeTitle {
			added = append(added, n)
		}
	}
	return added
}

// RemoveRoadmap drops every node belonging to the roadmap together with all
// edges touching those nodes. It returns the number of nodes removed.
func RemoveRoadmap(g *Graph, roadmapID int) int {
	removed := make(map[string]bool)
	kept := g.Nodes[:0]
	for _, n := range g.Nodes {
		if n.RoadmapID == roadmapID {
			removed[n.ID] = true
			continue
		}
		kept = append(kept, n)
	}
	g.Nodes = kept
	if len(removed) == 0 {
		return 0
	}

	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if removed[e.Source] || removed[e.Target] {
			continue
		}
		edges = append(edges, e)
	}
	g.Edges = edges
	return len(removed)
}

// Connect appends proposed cross-roadmap edges that pass AcceptEdge and
// returns the accepted ones.
func Connect(g *Graph, proposed []Edge) []Edge {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	seen := make(map[[2]string]bool, len(g.Edges))
	for _, e := range g.Edges {
		seen[[2]string{e.Source, e.Target}] = true
	}

	var accepted []Edge
	for _, e := range proposed {
		if !AcceptEdge(e, ids) || seen[[2]string{e.Source, e.Target}] {
			continue
		}
		seen[[2]string{e.Source, e.Target}] = true
		accepted = append(accepted, e)
	}
	g.Edges = append(g.Edges, accepted...)
	return accepted
}

// AcceptEdge reports whether a proposed cross-roadmap edge is strong enough,
// uses a cross relationship, and joins two distinct existing nodes.
func AcceptEdge(e Edge, ids map[string]bool) bool {
	if e.Relationship == RelContains || !e.Relationship.Valid() {
		return false
	}
	if e.Weight < MinRelationshipWeight {
		return false
	}
	if e.Source == e.Target {
		return false
	}
	return ids[e.Source] && ids[e.Target]
}

func roadmapNodes(r *roadmap.Roadmap, groupIdx int) ([]Node, []Edge) {
	topicID := TopicNodeID(r.ID)
	nodes := []Node{{
		ID:        topicID,
		Label:     r.Topic,
		Type:      NodeTopic,
		RoadmapID: r.ID,
		Group:     group(groupIdx),
	}}
	var edges []Edge

	items := make([]roadmap.Item, len(r.Items))
	copy(items, r.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	for _, it := range items {
		titleID := TitleNodeID(it.ID)
		nodes = append(nodes, Node{
			ID:        titleID,
			Label:     it.Title,
			Type:      NodeTitle,
			RoadmapID: r.ID,
			Group:     group(groupIdx),
		})
		edges = append(edges, Edge{
			Source:       topicID,
			Target:       titleID,
			Relationship: RelContains,
			Weight:       ContainsWeight,
		})
	}
	return nodes, edges
}
