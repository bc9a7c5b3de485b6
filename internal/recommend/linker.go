package recommend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/questmap/internal/knowledgegraph"
	"github.com/abhisek/questmap/internal/llm"
)

// Linker proposes cross-roadmap edges with a language model. It satisfies
// knowledgegraph.Linker.
type Linker struct {
	provider llm.Provider
	cfg      Config
}

var _ knowledgegraph.Linker = (*Linker)(nil)

// NewLinker creates an LLM-backed Linker.
func NewLinker(provider llm.Provider, cfg Config) *Linker {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	return &Linker{provider: provider, cfg: cfg}
}

type relationshipOutput struct {
	Relationships []struct {
		SourceID         string  `json:"source_id"`
		TargetID         string  `json:"target_id"`
		RelationshipType string  `json:"relationship_type"`
		Weight           float64 `json:"weight"`
		Explanation      string  `json:"explanation"`
	} `json:"relationships"`
}

// Link returns edges that join exactly one added node to one existing
// node. Weak or unknown relationships are dropped here; the graph applies
// its own checks again when the edges are connected.
func (l *Linker) Link(ctx context.Context, added, existing []knowledgegraph.Node) ([]knowledgegraph.Edge, error) {
	if len(added) == 0 || len(existing) == 0 {
		return nil, nil
	}

	ctx = llm.WithPurpose(ctx, "link")
	resp, err := l.provider.Generate(ctx, llm.Request{
		System:    linkSystemPrompt,
		Messages:  llm.UserPrompt(buildLinkMessage(added, existing)),
		Schema:    RelationshipSchema,
		MaxTokens: l.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("link nodes: %w", err)
	}

	var out relationshipOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse relationships: %w", err)
	}

	isNew := idSet(added)
	isOld := idSet(existing)
	var edges []knowledgegraph.Edge
	for _, r := range out.Relationships {
		crosses := (isNew[r.SourceID] && isOld[r.TargetID]) || (isOld[r.SourceID] && isNew[r.TargetID])
		if !crosses {
			continue
		}
		e := knowledgegraph.Edge{
			Source:       r.SourceID,
			Target:       r.TargetID,
			Relationship: knowledgegraph.Relationship(r.RelationshipType),
			Weight:       r.Weight,
		}
		if e.Relationship == knowledgegraph.RelContains || !e.Relationship.Valid() || e.Weight < knowledgegraph.MinRelationshipWeight {
			continue
		}
		edges = append(edges, e)
	}
	return edges, nil
}

func idSet(nodes []knowledgegraph.Node) map[string]bool {
	m := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		m[n.ID] = true
	}
	return m
}
