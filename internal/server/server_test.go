package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/questmap/internal/app"
	"github.com/abhisek/questmap/internal/discovery"
	"github.com/abhisek/questmap/internal/knowledgegraph"
	"github.com/abhisek/questmap/internal/platform/config"
	"github.com/abhisek/questmap/internal/progress"
	"github.com/abhisek/questmap/internal/roadmap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	app     *app.App
	engine  *gin.Engine
	roadmap *roadmap.Roadmap
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Store.Backend = config.BackendSQLite
	cfg.Server.CORSOrigins = []string{"http://localhost:3000"}

	a, err := app.New(context.Background(), app.Options{
		Config:     cfg,
		DBPath:     filepath.Join(t.TempDir(), "q.db"),
		DisableLLM: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	rm := &roadmap.Roadmap{Topic: "Go", Items: []roadmap.Item{
		{Title: "Syntax", Level: 1},
		{Title: "Types", Level: 1},
		{Title: "Goroutines", Level: 2},
	}}
	_, err = a.Catalog.Import(context.Background(), rm)
	require.NoError(t, err)

	return &fixture{app: a, engine: New(a).Engine, roadmap: rm}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthcheck(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestComplete(t *testing.T) {
	f := newFixture(t)
	item := f.roadmap.Items[0].ID

	w := f.do(t, http.MethodPost, "/api/progress/complete", map[string]any{
		"roadmap_item_id": item, "score": 5, "total_questions": 5,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[progress.CompletionResult](t, w)
	assert.True(t, res.Success)
	assert.True(t, res.IsNewUnlock)
	assert.Equal(t, item, res.ItemID)

	w = f.do(t, http.MethodGet, "/api/progress/unlocked", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{item}, decode[unlockedResponse](t, w).UnlockedIDs)

	w = f.do(t, http.MethodGet, "/api/progress/unlocked?user_id=someone_else", nil)
	assert.Empty(t, decode[unlockedResponse](t, w).UnlockedIDs)
}

func TestComplete_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"score above total", map[string]any{"roadmap_item_id": f.roadmap.Items[0].ID, "score": 6, "total_questions": 5}, http.StatusBadRequest, "invalid_score"},
		{"negative total", map[string]any{"roadmap_item_id": f.roadmap.Items[0].ID, "score": 0, "total_questions": -1}, http.StatusBadRequest, "invalid_score"},
		{"unknown item", map[string]any{"roadmap_item_id": 9999, "score": 1, "total_questions": 1}, http.StatusNotFound, "item_not_found"},
		{"missing item", map[string]any{"score": 1, "total_questions": 1}, http.StatusBadRequest, "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/api/progress/complete", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			env := decode[ErrorEnvelope](t, w)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestRoadmapProgressAndMap(t *testing.T) {
	f := newFixture(t)
	for _, it := range f.roadmap.ItemsAtLevel(1) {
		w := f.do(t, http.MethodPost, "/api/progress/complete", map[string]any{
			"roadmap_item_id": it.ID, "score": 3, "total_questions": 3, "user_id": "ana",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := f.do(t, http.MethodGet, fmt.Sprintf("/api/progress/roadmap/%d?user_id=ana", f.roadmap.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[roadmap.LevelProgress](t, w)
	assert.Equal(t, []int{1}, p.CompletedLevels)
	assert.Equal(t, 2, p.CurrentLevel)
	assert.Equal(t, 66, p.PercentComplete)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/roadmaps/%d/map?user_id=ana", f.roadmap.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[roadmap.Status](t, w)
	require.Len(t, st.Levels, 2)
	assert.True(t, st.Levels[1].Unlocked)

	w = f.do(t, http.MethodGet, "/api/progress/roadmap/404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/progress/roadmap/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDiscoveryFlow(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/progress/discovery-state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[discovery.Snapshot](t, w)
	assert.Equal(t, 0, snap.Phase)
	assert.Equal(t, 3, snap.UnlocksUntilNextThreshold)

	w = f.do(t, http.MethodPost, "/api/roadmaps/discover", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[progress.DiscoveryResult](t, w).Requested)

	for _, it := range f.roadmap.Items {
		f.do(t, http.MethodPost, "/api/progress/complete", map[string]any{
			"roadmap_item_id": it.ID, "score": 2, "total_questions": 2,
		})
	}

	snap = decode[discovery.Snapshot](t, f.do(t, http.MethodGet, "/api/progress/discovery-state", nil))
	assert.Equal(t, 1, snap.Phase)
	assert.True(t, snap.ShouldShowDiscovery)

	w = f.do(t, http.MethodPost, "/api/roadmaps/discover", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[progress.DiscoveryResult](t, w)
	assert.True(t, res.Requested)
	assert.NotEmpty(t, res.Suggestions)
	assert.Equal(t, []string{"Go"}, res.CompletedTopics)

	w = f.do(t, http.MethodPost, "/api/progress/mark-discovery-shown", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[discovery.Snapshot](t, w).ShouldShowDiscovery)
}

func TestDiscoveryVisibility(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/progress/discovery-visibility", map[string]any{"visible": false, "user_id": "ana"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[discovery.Snapshot](t, w).Visible)

	snap := decode[discovery.Snapshot](t, f.do(t, http.MethodGet, "/api/progress/discovery-state?user_id=ana", nil))
	assert.False(t, snap.Visible)

	w = f.do(t, http.MethodPost, "/api/progress/discovery-visibility", map[string]any{"user_id": "ana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoadmapsListImportDelete(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/roadmaps", map[string]any{
		"topic": "Cooking",
		"items": []map[string]any{{"title": "Knives", "level": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/roadmaps", map[string]any{
		"topic": "Broken",
		"items": []map[string]any{{"title": "Late", "level": 2}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	rms := decode[[]roadmap.Roadmap](t, f.do(t, http.MethodGet, "/api/roadmaps", nil))
	require.Len(t, rms, 2)

	w = f.do(t, http.MethodDelete, fmt.Sprintf("/api/roadmaps/%d", f.roadmap.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, fmt.Sprintf("/api/roadmaps/%d", f.roadmap.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	rms = decode[[]roadmap.Roadmap](t, f.do(t, http.MethodGet, "/api/roadmaps", nil))
	require.Len(t, rms, 1)
	assert.Equal(t, "Cooking", rms[0].Topic)
}

func TestKnowledgeGraph_FogOfWar(t *testing.T) {
	f := newFixture(t)
	first := f.roadmap.Items[0].ID
	f.do(t, http.MethodPost, "/api/progress/complete", map[string]any{
		"roadmap_item_id": first, "score": 1, "total_questions": 1,
	})

	w := f.do(t, http.MethodGet, "/api/knowledge-graph", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[knowledgegraph.Projection](t, w)
	require.Len(t, p.Nodes, 4)

	unlocked := map[string]bool{}
	for _, n := range p.Nodes {
		unlocked[n.ID] = n.Unlocked
	}
	assert.True(t, unlocked[knowledgegraph.TopicNodeID(f.roadmap.ID)])
	assert.True(t, unlocked[knowledgegraph.TitleNodeID(first)])
	assert.False(t, unlocked[knowledgegraph.TitleNodeID(f.roadmap.Items[2].ID)])

	require.Len(t, p.Edges, 1)
	assert.Equal(t, knowledgegraph.TitleNodeID(first), p.Edges[0].Target)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/progress/complete", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
