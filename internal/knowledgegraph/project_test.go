package knowledgegraph

import (
	"testing"

	"github.com/abhisek/questmap/internal/roadmap"
)

func twoRoadmapGraph() *Graph {
	return Build([]roadmap.Roadmap{
		{ID: 1, Topic: "Go", Items: []roadmap.Item{
			{ID: 10, Title: "Syntax", Level: 1},
			{ID: 11, Title: "Channels", Level: 2},
		}},
		{ID: 2, Topic: "Rust", Items: []roadmap.Item{
			{ID: 20, Title: "Ownership", Level: 1},
		}},
	})
}

func findNode(t *testing.T, p Projection, id string) ProjectedNode {
	t.Helper()
	for _, n := range p.Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %q missing from projection", id)
	return ProjectedNode{}
}

func hasEdge(p Projection, src, dst string) bool {
	for _, e := range p.Edges {
		if e.Source == src && e.Target == dst {
			return true
		}
	}
	return false
}

func TestProject_NodesAlwaysVisible(t *testing.T) {
	g := twoRoadmapGraph()
	p := Project(g.Nodes, g.Edges, roadmap.NewCompletedSet())

	if len(p.Nodes) != len(g.Nodes) {
		t.Fatalf("got %d nodes, want %d", len(p.Nodes), len(g.Nodes))
	}
	if len(p.Edges) != 0 {
		t.Errorf("got %d edges with nothing unlocked, want 0", len(p.Edges))
	}
	if !findNode(t, p, "topic_1").Unlocked {
		t.Error("topic nodes must always be unlocked")
	}
	if findNode(t, p, "title_10").Unlocked {
		t.Error("title_10 should be locked")
	}
}

func TestProject_FogOfWar(t *testing.T) {
	g := twoRoadmapGraph()
	g.Edges = append(g.Edges,
		Edge{Source: "title_10", Target: "title_20", Relationship: RelTransfer, Weight: 2},
		Edge{Source: "title_11", Target: "title_20", Relationship: RelConceptual, Weight: 2},
	)
	p := Project(g.Nodes, g.Edges, roadmap.NewCompletedSet(10, 20))

	if !hasEdge(p, "topic_1", "title_10") {
		t.Error("edge topic_1 -> title_10 should be visible")
	}
	if !hasEdge(p, "title_10", "title_20") {
		t.Error("edge title_10 -> title_20 should be visible")
	}
	if hasEdge(p, "topic_1", "title_11") {
		t.Error("edge to locked title_11 should be hidden")
	}
	if hasEdge(p, "title_11", "title_20") {
		t.Error("edge from locked title_11 should be hidden")
	}
	// The locked node itself stays.
	n := findNode(t, p, "title_11")
	if n.Unlocked {
		t.Error("title_11 should be locked")
	}
	if n.Color != LockedColor {
		t.Errorf("locked node colour = %s, want %s", n.Color, LockedColor)
	}
}

func TestProject_EdgeInvariant(t *testing.T) {
	g := twoRoadmapGraph()
	sets := []roadmap.CompletedSet{
		roadmap.NewCompletedSet(),
		roadmap.NewCompletedSet(10),
		roadmap.NewCompletedSet(11, 20),
		roadmap.NewCompletedSet(10, 11, 20),
	}
	for _, s := range sets {
		p := Project(g.Nodes, g.Edges, s)
		state := make(map[string]bool)
		for _, n := range p.Nodes {
			state[n.ID] = n.Unlocked
		}
		for _, e := range p.Edges {
			if !state[e.Source] || !state[e.Target] {
				t.Errorf("set %v: edge %s -> %s touches a locked node", s.IDs(), e.Source, e.Target)
			}
		}
		if len(p.Nodes) != len(g.Nodes) {
			t.Errorf("set %v: node count changed", s.IDs())
		}
	}
}

func TestProject_MissingEndpointDropped(t *testing.T) {
	nodes := []Node{{ID: "topic_1", Type: NodeTopic}}
	edges := []Edge{{Source: "topic_1", Target: "title_99", Relationship: RelContains, Weight: 3}}
	p := Project(nodes, edges, roadmap.NewCompletedSet(99))
	if len(p.Edges) != 0 {
		t.Error("edge to a missing node should be dropped")
	}
	if findNode(t, p, "topic_1").TopicComplete {
		t.Error("topic whose only child is missing should not be complete")
	}
}

func TestProject_MalformedIDsAreLocked(t *testing.T) {
	nodes := []Node{
		{ID: "topic_1", Type: NodeTopic},
		{ID: "title_abc", Type: NodeTitle},
		{ID: "title_", Type: NodeTitle},
		{ID: "title_-3", Type: NodeTitle},
		{ID: "item_4", Type: "concept"},
		{ID: "title_4", Type: NodeTitle},
	}
	edges := []Edge{
		{Source: "topic_1", Target: "title_abc", Relationship: RelContains, Weight: 3},
		{Source: "topic_1", Target: "title_4", Relationship: RelContains, Weight: 3},
	}
	p := Project(nodes, edges, roadmap.NewCompletedSet(4, 3))

	for _, id := range []string{"title_abc", "title_", "title_-3", "item_4"} {
		if findNode(t, p, id).Unlocked {
			t.Errorf("%s should be locked", id)
		}
	}
	if len(p.Malformed) != 4 {
		t.Errorf("got %d malformed ids, want 4: %v", len(p.Malformed), p.Malformed)
	}
	if !findNode(t, p, "title_4").Unlocked {
		t.Error("title_4 should be unlocked")
	}
	if findNode(t, p, "topic_1").TopicComplete {
		t.Error("topic with a permanently locked child can never complete")
	}
}

func TestTopicComplete(t *testing.T) {
	g := twoRoadmapGraph()

	tests := []struct {
		name      string
		completed roadmap.CompletedSet
		topic     string
		want      bool
	}{
		{"none", roadmap.NewCompletedSet(), "topic_1", false},
		{"one of two", roadmap.NewCompletedSet(10), "topic_1", false},
		{"last child unlocks", roadmap.NewCompletedSet(10, 11), "topic_1", true},
		{"other roadmap", roadmap.NewCompletedSet(10, 11), "topic_2", false},
		{"single child", roadmap.NewCompletedSet(20), "topic_2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TopicComplete(tt.topic, g.Nodes, g.Edges, tt.completed); got != tt.want {
				t.Errorf("TopicComplete(%s) = %v, want %v", tt.topic, got, tt.want)
			}
		})
	}
}

func TestTopicComplete_ZeroChildren(t *testing.T) {
	nodes := []Node{
		{ID: "topic_1", Type: NodeTopic},
		{ID: "topic_2", Type: NodeTopic},
		{ID: "title_5", Type: NodeTitle},
	}
	// A non-contains edge does not make title_5 a child.
	edges := []Edge{{Source: "topic_2", Target: "title_5", Relationship: RelConceptual, Weight: 2}}
	for _, id := range []string{"topic_1", "topic_2"} {
		if TopicComplete(id, nodes, edges, roadmap.NewCompletedSet(5)) {
			t.Errorf("%s has no contains children and must not be complete", id)
		}
	}
}

func TestProject_Colors(t *testing.T) {
	g := twoRoadmapGraph()
	p := Project(g.Nodes, g.Edges, roadmap.NewCompletedSet(10, 20))

	tests := []struct {
		id   string
		want string
	}{
		{"topic_1", Palette[0]},    // incomplete topic, group 0
		{"title_10", Palette[0]},   // unlocked item, group 0
		{"title_11", LockedColor},  // locked item
		{"topic_2", CompleteColor}, // complete topic
		{"title_20", Palette[1]},   // unlocked item, group 1
	}
	for _, tt := range tests {
		if got := findNode(t, p, tt.id).Color; got != tt.want {
			t.Errorf("colour of %s = %s, want %s", tt.id, got, tt.want)
		}
	}
}

func TestGroupColor(t *testing.T) {
	n := len(Palette)
	if GroupColor(0) != GroupColor(n) {
		t.Error("group colours should wrap")
	}
	if GroupColor(-1) != Palette[n-1] {
		t.Errorf("GroupColor(-1) = %s, want %s", GroupColor(-1), Palette[n-1])
	}

	p := Project([]Node{{ID: "title_1", Type: NodeTitle}}, nil, roadmap.NewCompletedSet(1))
	if p.Nodes[0].Color != Palette[0] {
		t.Error("missing group should use group 0")
	}
}

func TestProject_OrderIndependentColors(t *testing.T) {
	g := twoRoadmapGraph()
	completed := roadmap.NewCompletedSet(10)
	forward := Project(g.Nodes, g.Edges, completed)

	reversed := make([]Node, len(g.Nodes))
	for i, n := range g.Nodes {
		reversed[len(g.Nodes)-1-i] = n
	}
	backward := Project(reversed, g.Edges, completed)

	colors := make(map[string]string)
	for _, n := range forward.Nodes {
		colors[n.ID] = n.Color
	}
	for _, n := range backward.Nodes {
		if colors[n.ID] != n.Color {
			t.Errorf("colour of %s depends on node order", n.ID)
		}
	}
}

func TestParseTitleID(t *testing.T) {
	tests := []struct {
		id   string
		want int
		ok   bool
	}{
		{"title_42", 42, true},
		{"title_0", 0, true},
		{"topic_42", 0, false},
		{"title_", 0, false},
		{"title_4x", 0, false},
		{"title_+4", 0, false},
		{"title_-4", 0, false},
		{"title_007", 0, false},
		{"title_00", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseTitleID(tt.id)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseTitleID(%q) = (%d, %v), want (%d, %v)", tt.id, got, ok, tt.want, tt.ok)
		}
	}
	if id, _ := ParseTitleID(TitleNodeID(17)); id != 17 {
		t.Error("TitleNodeID should round trip")
	}
}

func TestProject_DuplicateNodesEmittedOnce(t *testing.T) {
	nodes := []Node{
		{ID: "topic_1", Type: NodeTopic, RoadmapID: 1},
		{ID: "title_1", Type: NodeTitle, RoadmapID: 1},
		{ID: "title_1", Type: NodeTitle, RoadmapID: 1},
	}
	p := Project(nodes, nil, roadmap.NewCompletedSet(1))
	if len(p.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(p.Nodes))
	}
	if p.Nodes[0].ID != "topic_1" || p.Nodes[1].ID != "title_1" {
		t.Errorf("nodes out of input order: %s, %s", p.Nodes[0].ID, p.Nodes[1].ID)
	}
	if !p.Nodes[1].Unlocked {
		t.Error("title_1 should be unlocked")
	}
}
