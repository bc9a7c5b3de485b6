// Package recommend suggests what a learner could explore next and links
// new roadmap items into the knowledge graph. Both are backed by an LLM
// when one is configured.
package recommend

import (
	"context"
	"strings"

	"github.com/abhisek/questmap/internal/platform/logger"
)

// Suggestion types.
const (
	TypeNextLevel    = "next_level"
	TypeRelatedField = "related_field"
	TypeCrossDomain  = "cross_domain"
)

// Suggestion is one topic the learner might pick up next.
type Suggestion struct {
	Topic          string `json:"topic"`
	Reason         string `json:"reason"`
	SuggestionType string `json:"suggestion_type"`
	Description    string `json:"description"`
}

// Suggester proposes new topics from the topics a learner has worked on.
type Suggester interface {
	Suggest(ctx context.Context, completedTopics []string) ([]Suggestion, error)
}

// Static returns suggestions from a fixed list, skipping topics the learner
// already has. It needs no network access.
type Static struct {
	Catalog []Suggestion
	Limit   int
}

// DefaultCatalog is used by NewStatic when no catalog is given.
var DefaultCatalog = []Suggestion{
	{Topic: "Data Structures", Reason: "Most topics get easier once the core structures are familiar.", SuggestionType: TypeNextLevel, Description: "Arrays, lists, trees, hash maps and when to use each."},
	{Topic: "Statistics", Reason: "A quantitative lens carries over to almost any field.", SuggestionType: TypeCrossDomain, Description: "Descriptive statistics, distributions and inference."},
	{Topic: "Technical Writing", Reason: "Explaining what you learned cements it.", SuggestionType: TypeRelatedField, Description: "Structuring documents, tutorials and reference material."},
	{Topic: "Systems Thinking", Reason: "Connects ideas across the topics you already know.", SuggestionType: TypeCrossDomain, Description: "Feedback loops, stocks and flows, and emergent behaviour."},
	{Topic: "Databases", Reason: "Most real projects need durable data.", SuggestionType: TypeNextLevel, Description: "Relational modelling, SQL and indexing."},
}

// NewStatic returns a Static suggester over DefaultCatalog.
func NewStatic() *Static {
	return &Static{Catalog: DefaultCatalog, Limit: 3}
}

func (s *Static) Suggest(_ context.Context, completedTopics []string) ([]Suggestion, error) {
	known := make(map[string]bool, len(completedTopics))
	for _, t := range completedTopics {
		known[normalize(t)] = true
	}

	out := []Suggestion{}
	for _, sg := range s.Catalog {
		if s.Limit > 0 && len(out) >= s.Limit {
			break
		}
		if known[normalize(sg.Topic)] {
			continue
		}
		out = append(out, sg)
	}
	return out, nil
}

// Fallback tries Primary and answers from Secondary when it fails.
type Fallback struct {
	Primary   Suggester
	Secondary Suggester
	Log       *logger.Logger
}

func (f *Fallback) Suggest(ctx context.Context, completedTopics []string) ([]Suggestion, error) {
	out, err := f.Primary.Suggest(ctx, completedTopics)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	if f.Log != nil {
		f.Log.Warn("suggester failed, using fallback", "error", err)
	}
	return f.Secondary.Suggest(ctx, completedTopics)
}

func normalize(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}
