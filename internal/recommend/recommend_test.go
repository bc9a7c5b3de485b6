package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/questmap/internal/knowledgegraph"
	"github.com/abhisek/questmap/internal/llm"
)

func TestStatic_SkipsKnownTopics(t *testing.T) {
	s := NewStatic()
	got, err := s.Suggest(context.Background(), []string{" data structures ", "Statistics"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, sg := range got {
		assert.NotEqual(t, "Data Structures", sg.Topic)
		assert.NotEqual(t, "Statistics", sg.Topic)
	}
}

func TestLLMSuggester(t *testing.T) {
	content := `{"suggestions":[
		{"topic":"Go","reason":"r","suggestion_type":"next_level","description":"d"},
		{"topic":"Rust","reason":"r","suggestion_type":"related_field","description":"d"},
		{"topic":"Python","reason":"r","suggestion_type":"cross_domain","description":"d"},
		{"topic":"Zig","reason":"r","suggestion_type":"related_field","description":"d"}
	]}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(content)})
	s := NewLLMSuggester(mock, Config{MaxSuggestions: 2})

	got, err := s.Suggest(context.Background(), []string{"python"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Go", got[0].Topic)
	assert.Equal(t, "Rust", got[1].Topic)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, SuggestionSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "- python")
	assert.Contains(t, req.Messages[0].Content, "exactly 2")
}

func TestLLMSuggester_NoTopicsSkipsModel(t *testing.T) {
	mock := llm.NewMockProvider()
	got, err := NewLLMSuggester(mock, DefaultConfig()).Suggest(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, mock.CallCount())
}

func TestLLMSuggester_SchemaViolation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"suggestions":[{"topic":"Go"}]}`)})
	_, err := NewLLMSuggester(mock, DefaultConfig()).Suggest(context.Background(), []string{"C"})
	var inv *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))
}

func TestFallback(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	f := &Fallback{Primary: NewLLMSuggester(mock, DefaultConfig()), Secondary: NewStatic()}

	got, err := f.Suggest(context.Background(), []string{"Go"})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestLinker(t *testing.T) {
	added := []knowledgegraph.Node{
		{ID: "title_10", Label: "Goroutines", Type: knowledgegraph.NodeTitle, RoadmapID: 2},
		{ID: "title_11", Label: "Channels", Type: knowledgegraph.NodeTitle, RoadmapID: 2},
	}
	existing := []knowledgegraph.Node{
		{ID: "title_1", Label: "Threads", Type: knowledgegraph.NodeTitle, RoadmapID: 1},
	}
	content := `{"relationships":[
		{"source_id":"title_1","target_id":"title_10","relationship_type":"prerequisite","weight":2.5,"explanation":"e"},
		{"source_id":"title_10","target_id":"title_11","relationship_type":"conceptual","weight":3,"explanation":"both new"},
		{"source_id":"title_11","target_id":"title_1","relationship_type":"transfer","weight":1.0,"explanation":"too weak"},
		{"source_id":"title_11","target_id":"title_99","relationship_type":"conceptual","weight":2,"explanation":"unknown"}
	]}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(content)})

	edges, err := NewLinker(mock, Config{}).Link(context.Background(), added, existing)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, knowledgegraph.Edge{
		Source: "title_1", Target: "title_10",
		Relationship: knowledgegraph.RelPrerequisite, Weight: 2.5,
	}, edges[0])
	assert.Equal(t, 4096, mock.Calls[0].MaxTokens)
}

func TestLinker_NothingToLink(t *testing.T) {
	mock := llm.NewMockProvider()
	edges, err := NewLinker(mock, Config{}).Link(context.Background(), nil, []knowledgegraph.Node{{ID: "title_1"}})
	require.NoError(t, err)
	assert.Nil(t, edges)
	assert.Zero(t, mock.CallCount())
}
