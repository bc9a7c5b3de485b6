package knowledgegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/questmap/internal/roadmap"
)

func TestBuild(t *testing.T) {
	g := twoRoadmapGraph()

	require.Len(t, g.Nodes, 5)
	require.Len(t, g.Edges, 3)

	topic, ok := g.Node("topic_2")
	require.True(t, ok)
	assert.Equal(t, NodeTopic, topic.Type)
	assert.Equal(t, "Rust", topic.Label)
	assert.Equal(t, 1, topic.GroupIndex())

	for _, e := range g.Edges {
		assert.Equal(t, RelContains, e.Relationship)
		assert.Equal(t, ContainsWeight, e.Weight)
	}
	assert.Len(t, g.TitleNodes(), 3)
}

func TestBuild_GroupsFollowIDOrder(t *testing.T) {
	g := Build([]roadmap.Roadmap{
		{ID: 9, Topic: "later"},
		{ID: 3, Topic: "earlier"},
	})
	n, _ := g.Node("topic_3")
	assert.Equal(t, 0, n.GroupIndex())
	n, _ = g.Node("topic_9")
	assert.Equal(t, 1, n.GroupIndex())
}

func TestAddRoadmap(t *testing.T) {
	g := twoRoadmapGraph()
	added := AddRoadmap(g, &roadmap.Roadmap{ID: 3, Topic: "Zig", Items: []roadmap.Item{
		{ID: 30, Title: "Comptime", Level: 1},
		{ID: 31, Title: "Allocators", Level: 1},
	}})

	require.Len(t, added, 2)
	assert.Equal(t, "title_30", added[0].ID)
	assert.Equal(t, 2, added[0].GroupIndex())

	topic, ok := g.Node("topic_3")
	require.True(t, ok)
	assert.Equal(t, 2, topic.GroupIndex())
	assert.Len(t, g.Nodes, 8)
	assert.Len(t, g.Edges, 5)
}

func TestAddRoadmap_Replaces(t *testing.T) {
	g := twoRoadmapGraph()
	AddRoadmap(g, &roadmap.Roadmap{ID: 2, Topic: "Rust 2", Items: []roadmap.Item{{ID: 21, Title: "Traits", Level: 1}}})

	_, ok := g.Node("title_20")
	assert.False(t, ok)
	n, ok := g.Node("topic_2")
	require.True(t, ok)
	assert.Equal(t, "Rust 2", n.Label)
	assert.Len(t, g.Nodes, 5)
}

func TestRemoveRoadmap(t *testing.T) {
	g := twoRoadmapGraph()
	Connect(g, []Edge{{Source: "title_10", Target: "title_20", Relationship: RelPrerequisite, Weight: 2.5}})

	removed := RemoveRoadmap(g, 2)
	assert.Equal(t, 2, removed)
	assert.Len(t, g.Nodes, 3)
	for _, e := range g.Edges {
		assert.NotEqual(t, "title_20", e.Target)
		assert.NotEqual(t, "topic_2", e.Source)
	}
	assert.Equal(t, 0, RemoveRoadmap(g, 42))
}

func TestConnect(t *testing.T) {
	g := twoRoadmapGraph()
	proposed := []Edge{
		{Source: "title_10", Target: "title_20", Relationship: RelTransfer, Weight: 2.0},
		{Source: "title_10", Target: "title_20", Relationship: RelTransfer, Weight: 2.0},     // duplicate
		{Source: "title_11", Target: "title_20", Relationship: RelConceptual, Weight: 1.49},  // too weak
		{Source: "title_11", Target: "title_99", Relationship: RelConceptual, Weight: 3},     // missing endpoint
		{Source: "title_11", Target: "title_20", Relationship: RelContains, Weight: 3},       // reserved
		{Source: "title_11", Target: "title_20", Relationship: "related", Weight: 3},         // unknown
		{Source: "title_11", Target: "title_11", Relationship: RelComplementary, Weight: 3},  // self loop
		{Source: "title_11", Target: "title_20", Relationship: RelPrerequisite, Weight: 1.5}, // boundary
	}
	accepted := Connect(g, proposed)
	require.Len(t, accepted, 2)
	assert.Equal(t, RelTransfer, accepted[0].Relationship)
	assert.Equal(t, RelPrerequisite, accepted[1].Relationship)
	assert.Len(t, g.Edges, 5)
}
