package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/questmap/internal/discovery"
	"github.com/abhisek/questmap/internal/knowledgegraph"
	"github.com/abhisek/questmap/internal/roadmap"
	"github.com/abhisek/questmap/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newRoadmap(topic string, levels ...int) *roadmap.Roadmap {
	r := &roadmap.Roadmap{UserID: "u", Topic: topic, Experience: "Beginner"}
	for i, lvl := range levels {
		r.Items = append(r.Items, roadmap.Item{Title: topic + " " + string(rune('A'+i)), Level: lvl})
	}
	return r
}

func identity(st discovery.State) discovery.State { return st }

type linkerFunc func(ctx context.Context, added, existing []knowledgegraph.Node) ([]knowledgegraph.Edge, error)

func (f linkerFunc) Link(ctx context.Context, added, existing []knowledgegraph.Node) ([]knowledgegraph.Edge, error) {
	return f(ctx, added, existing)
}

func TestImport_BuildsGraph(t *testing.T) {
	s := openStore(t)
	svc := New(s, s.Progress(), nil, nil)
	ctx := context.Background()

	res, err := svc.Import(ctx, newRoadmap("Go", 1, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Nodes)
	assert.NotZero(t, res.Roadmap.ID)

	g, err := svc.Graph(ctx)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 4)
	require.Len(t, g.Edges, 3)
	for _, e := range g.Edges {
		assert.Equal(t, knowledgegraph.RelContains, e.Relationship)
		assert.Equal(t, knowledgegraph.TopicNodeID(res.Roadmap.ID), e.Source)
	}
}

func TestImport_LinksAcrossRoadmaps(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	var calls int
	linker := linkerFunc(func(_ context.Context, added, existing []knowledgegraph.Node) ([]knowledgegraph.Edge, error) {
		calls++
		return []knowledgegraph.Edge{
			{Source: existing[0].ID, Target: added[0].ID, Relationship: knowledgegraph.RelPrerequisite, Weight: 2},
			{Source: existing[0].ID, Target: added[0].ID, Relationship: knowledgegraph.RelConceptual, Weight: 1}, // too weak
		}, nil
	})
	svc := New(s, s.Progress(), linker, nil)

	_, err := svc.Import(ctx, newRoadmap("Math", 1))
	require.NoError(t, err)
	assert.Zero(t, calls, "nothing to link against yet")

	res, err := svc.Import(ctx, newRoadmap("Physics", 1))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, res.Links)

	g, err := svc.Graph(ctx)
	require.NoError(t, err)
	assert.Len(t, g.Edges, 3)
}

func TestImport_LinkerFailureIsNotFatal(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	linker := linkerFunc(func(context.Context, []knowledgegraph.Node, []knowledgegraph.Node) ([]knowledgegraph.Edge, error) {
		return nil, errors.New("model down")
	})
	svc := New(s, s.Progress(), linker, nil)

	_, err := svc.Import(ctx, newRoadmap("A", 1))
	require.NoError(t, err)
	res, err := svc.Import(ctx, newRoadmap("B", 1))
	require.NoError(t, err)
	assert.Zero(t, res.Links)
}

func TestImport_InvalidRoadmap(t *testing.T) {
	s := openStore(t)
	svc := New(s, s.Progress(), nil, nil)
	_, err := svc.Import(context.Background(), newRoadmap("NoEntry", 2))
	assert.Error(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDelete_Cascades(t *testing.T) {
	s := openStore(t)
	svc := New(s, s.Progress(), nil, nil)
	ctx := context.Background()

	keep, err := svc.Import(ctx, newRoadmap("Keep", 1))
	require.NoError(t, err)
	drop, err := svc.Import(ctx, newRoadmap("Drop", 1, 2))
	require.NoError(t, err)

	for _, it := range append(keep.Roadmap.Items, drop.Roadmap.Items...) {
		_, _, err := s.Progress().RecordUnlock(ctx, "u", it.ID, identity)
		require.NoError(t, err)
	}

	require.NoError(t, svc.Delete(ctx, drop.Roadmap.ID))

	_, err = svc.Get(ctx, drop.Roadmap.ID)
	assert.True(t, IsNotFound(err))

	g, err := svc.Graph(ctx)
	require.NoError(t, err)
	for _, n := range g.Nodes {
		assert.Equal(t, keep.Roadmap.ID, n.RoadmapID)
	}

	set, err := s.Progress().CompletedItems(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []int{keep.Roadmap.Items[0].ID}, set.IDs())

	assert.True(t, IsNotFound(svc.Delete(ctx, drop.Roadmap.ID)))
}

func TestProjected(t *testing.T) {
	s := openStore(t)
	svc := New(s, s.Progress(), nil, nil)
	ctx := context.Background()

	res, err := svc.Import(ctx, newRoadmap("Go", 1, 1))
	require.NoError(t, err)
	items := res.Roadmap.Items

	p, err := svc.Projected(ctx, roadmap.NewCompletedSet(items[0].ID))
	require.NoError(t, err)
	assert.Len(t, p.Nodes, 3)
	assert.Len(t, p.Edges, 1)

	p, err = svc.Projected(ctx, roadmap.NewCompletedSet(items[0].ID, items[1].ID))
	require.NoError(t, err)
	assert.Len(t, p.Edges, 2)
	for _, n := range p.Nodes {
		if n.Type == knowledgegraph.NodeTopic {
			assert.True(t, n.TopicComplete)
			assert.Equal(t, knowledgegraph.CompleteColor, n.Color)
		}
	}
}

func TestMapAndProgress(t *testing.T) {
	s := openStore(t)
	svc := New(s, s.Progress(), nil, nil)
	ctx := context.Background()

	res, err := svc.Import(ctx, newRoadmap("Go", 1, 1, 2))
	require.NoError(t, err)
	items := res.Roadmap.Items
	done := roadmap.NewCompletedSet(items[0].ID, items[1].ID)

	st, err := svc.Map(ctx, res.Roadmap.ID, done)
	require.NoError(t, err)
	require.Len(t, st.Levels, 2)
	assert.True(t, st.Levels[1].Unlocked)

	lp, err := svc.Progress(ctx, res.Roadmap.ID, done)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, lp.CompletedLevels)
	assert.Equal(t, 2, lp.CurrentLevel)

	_, err = svc.Map(ctx, 999, done)
	assert.True(t, IsNotFound(err))
}

func TestRebuild_KeepsCrossEdges(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	linker := linkerFunc(func(_ context.Context, added, existing []knowledgegraph.Node) ([]knowledgegraph.Edge, error) {
		return []knowledgegraph.Edge{
			{Source: existing[0].ID, Target: added[0].ID, Relationship: knowledgegraph.RelTransfer, Weight: 2},
		}, nil
	})
	svc := New(s, s.Progress(), linker, nil)

	_, err := svc.Import(ctx, newRoadmap("A", 1))
	require.NoError(t, err)
	_, err = svc.Import(ctx, newRoadmap("B", 1))
	require.NoError(t, err)

	g, err := svc.Rebuild(ctx)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 4)
	assert.Len(t, g.Edges, 3)
}
