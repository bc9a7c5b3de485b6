// Package knowledgegraph maintains the aggregate topic/item graph across all
// roadmaps and projects it through the learner's unlock state.
package knowledgegraph

// NodeType distinguishes roadmap topics from roadmap items.
type NodeType string

const (
	NodeTopic NodeType = "topic"
	NodeTitle NodeType = "title"
)

// Relationship labels an edge between two nodes.
type Relationship string

const (
	RelContains      Relationship = "contains"
	RelPrerequisite  Relationship = "prerequisite"
	RelComplementary Relationship = "complementary"
	RelConceptual    Relationship = "conceptual"
	RelTransfer      Relationship = "transfer"
)

// CrossRelationships returns the relationships allowed between nodes of
// different roadmaps.
func CrossRelationships() []Relationship {
	return []Relationship{RelPrerequisite, RelComplementary, RelConceptual, RelTransfer}
}

// Valid reports whether r is a known relationship.
func (r Relationship) Valid() bool {
	switch r {
	case RelContains, RelPrerequisite, RelComplementary, RelConceptual, RelTransfer:
		return true
	}
	return false
}

const (
	// ContainsWeight is the weight of every topic to item edge.
	ContainsWeight = 3.0

	// MinRelationshipWeight is the weakest cross-roadmap relationship kept.
	MinRelationshipWeight = 1.5
)

// Node is a vertex of the knowledge graph. Group is only used for colour
// selection; nil is treated as group 0.
type Node struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Type      NodeType `json:"type"`
	RoadmapID int      `json:"roadmap_id"`
	Group     *int     `json:"group"`
}

// GroupIndex returns the node's group, defaulting to 0.
func (n Node) GroupIndex() int {
	if n.Group == nil {
		return 0
	}
	return *n.Group
}

// Edge connects two nodes. Weight only affects rendered thickness.
type Edge struct {
	Source       string       `json:"source"`
	Target       string       `json:"target"`
	Relationship Relationship `json:"relationship"`
	Weight       float64      `json:"weight"`
}

// Graph is the full, unfiltered knowledge graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// TitleNodes returns all item nodes.
func (g *Graph) TitleNodes() []Node {
	var result []Node
	for _, n := range g.Nodes {
		if n.Type == NodeTitle {
			result = append(result, n)
		}
	}
	return result
}

func group(i int) *int {
	return &i
}
