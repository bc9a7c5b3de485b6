package knowledgegraph

import (
	"github.com/abhisek/questmap/internal/roadmap"
)

// ProjectedNode is a node annotated with the learner's unlock state.
type ProjectedNode struct {
	Node
	Unlocked      bool   `json:"unlocked"`
	TopicComplete bool   `json:"topic_complete"`
	Color         string `json:"color"`
}

// Projection is the fog-of-war view of the graph. Every input node is
// present; only edges between two unlocked nodes survive. Malformed lists
// the ids of item nodes whose id could not be mapped to an item.
type Projection struct {
	Nodes     []ProjectedNode `json:"nodes"`
	Edges     []Edge          `json:"edges"`
	Malformed []string        `json:"-"`
}

// Project filters the graph through the completed set.
//
// Topic nodes are always unlocked. Any other node is unlocked only when its
// id parses to an item id present in completed; an unparseable id leaves the
// node permanently locked. An edge is dropped when either endpoint is locked
// or missing. Project never fails.
func Project(nodes []Node, edges []Edge, completed roadmap.CompletedSet) Projection {
	p := Projection{
		Nodes: make([]ProjectedNode, 0, len(nodes)),
		Edges: []Edge{},
	}

	unlocked := make(map[string]bool, len(nodes))
	types := make(map[string]NodeType, len(nodes))
	for _, n := range nodes {
		if _, dup := types[n.ID]; dup {
			continue
		}
		types[n.ID] = n.Type
		if n.Type == NodeTopic {
			unlocked[n.ID] = true
			continue
		}
		itemID, ok := ParseTitleID(n.ID)
		if !ok {
			p.Malformed = append(p.Malformed, n.ID)
			continue
		}
		unlocked[n.ID] = completed.Has(itemID)
	}

	complete := topicCompletion(edges, types, unlocked)

	emitted := make(map[string]bool, len(types))
	for _, n := range nodes {
		if emitted[n.ID] {
			continue
		}
		emitted[n.ID] = true
		pn := ProjectedNode{
			Node:          n,
			Unlocked:      unlocked[n.ID],
			TopicComplete: complete[n.ID],
		}
		pn.Color = nodeColor(pn)
		p.Nodes = append(p.Nodes, pn)
	}

	for _, e := range edges {
		if unlocked[e.Source] && unlocked[e.Target] {
			p.Edges = append(p.Edges, e)
		}
	}
	return p
}

// TopicComplete reports whether the topic has at least one contained item
// node and all of them are unlocked. A topic without children is never
// complete.
func TopicComplete(topicID string, nodes []Node, edges []Edge, completed roadmap.CompletedSet) bool {
	p := Project(nodes, edges, completed)
	for _, n := range p.Nodes {
		if n.ID == topicID {
			return n.TopicComplete
		}
	}
	return false
}

func topicCompletion(edges []Edge, types map[string]NodeType, unlocked map[string]bool) map[string]bool {
	children := make(map[string]int)
	done := make(map[string]int)
	for _, e := range edges {
		if e.Relationship != RelContains {
			continue
		}
		if types[e.Source] != NodeTopic || types[e.Target] != NodeTitle {
			continue
		}
		children[e.Source]++
		if unlocked[e.Target] {
			done[e.Source]++
		}
	}

	complete := make(map[string]bool, len(children))
	for topic, n := range children {
		complete[topic] = n > 0 && done[topic] == n
	}
	return complete
}

func nodeColor(n ProjectedNode) string {
	switch {
	case n.TopicComplete:
		return CompleteColor
	case n.Type != NodeTopic && !n.Unlocked:
		return LockedColor
	default:
		return GroupColor(n.GroupIndex())
	}
}
