package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/questmap/internal/platform/config"
	"github.com/abhisek/questmap/internal/roadmap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Store.Backend = config.BackendSQLite
	return cfg
}

func TestNew_SQLiteEndToEnd(t *testing.T) {
	a, err := New(context.Background(), Options{
		Config:     testConfig(t),
		DBPath:     filepath.Join(t.TempDir(), "q.db"),
		DisableLLM: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	ctx := context.Background()

	require.NoError(t, a.HealthCheck(ctx))

	r := &roadmap.Roadmap{Topic: "Go", Items: []roadmap.Item{
		{Title: "Syntax", Level: 1},
		{Title: "Types", Level: 1},
		{Title: "Goroutines", Level: 2},
	}}
	_, err = a.Catalog.Import(ctx, r)
	require.NoError(t, err)

	for _, it := range r.Items {
		res, err := a.Progress.RecordCompletion(ctx, "u", it.ID, 5, 5)
		require.NoError(t, err)
		assert.True(t, res.IsNewUnlock)
	}

	snap, err := a.Progress.DiscoveryState(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Phase)
	assert.True(t, snap.ShouldShowDiscovery)

	disc, err := a.Progress.Discover(ctx, "u", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, disc.CompletedTopics)
	assert.NotEmpty(t, disc.Suggestions)

	require.NoError(t, a.Catalog.Delete(ctx, r.ID))
	set, err := a.Progress.CompletedItems(ctx, "u")
	require.NoError(t, err)
	assert.Zero(t, set.Len())

	snap, err = a.Progress.DiscoveryState(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.TotalUnlocks, "deleting a roadmap keeps the unlock counter")
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = "mongo"
	_, err := New(context.Background(), Options{Config: cfg, DBPath: filepath.Join(t.TempDir(), "q.db")})
	assert.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	a, err := New(context.Background(), Options{
		Config:     testConfig(t),
		DBPath:     filepath.Join(t.TempDir(), "q.db"),
		DisableLLM: true,
	})
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}
