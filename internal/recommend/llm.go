package recommend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/questmap/internal/llm"
)

// LLMSuggester asks a language model for suggestions.
type LLMSuggester struct {
	provider llm.Provider
	cfg      Config
}

// NewLLMSuggester creates an LLM-backed Suggester.
func NewLLMSuggester(provider llm.Provider, cfg Config) *LLMSuggester {
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = DefaultConfig().MaxSuggestions
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &LLMSuggester{provider: provider, cfg: cfg}
}

type suggestionsOutput struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggest returns at most MaxSuggestions entries. With nothing completed
// there is nothing to build on and the model is not called.
func (s *LLMSuggester) Suggest(ctx context.Context, completedTopics []string) ([]Suggestion, error) {
	if len(completedTopics) == 0 {
		return []Suggestion{}, nil
	}

	ctx = llm.WithPurpose(ctx, "suggest")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      suggestSystemPrompt,
		Messages:    llm.UserPrompt(buildSuggestMessage(completedTopics, s.cfg.MaxSuggestions)),
		Schema:      SuggestionSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("suggest topics: %w", err)
	}

	var out suggestionsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}

	known := make(map[string]bool, len(completedTopics))
	for _, t := range completedTopics {
		known[normalize(t)] = true
	}
	result := []Suggestion{}
	for _, sg := range out.Suggestions {
		if sg.Topic == "" || known[normalize(sg.Topic)] {
			continue
		}
		result = append(result, sg)
		if len(result) == s.cfg.MaxSuggestions {
			break
		}
	}
	return result, nil
}
