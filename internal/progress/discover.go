package progress

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/questmap/internal/discovery"
	"github.com/abhisek/questmap/internal/recommend"
	"github.com/abhisek/questmap/internal/store"
)

// DiscoveryResult is a batch of suggestions offered to the learner.
// Requested is false when no discovery was pending and none was forced.
type DiscoveryResult struct {
	ID              string                 `json:"id,omitempty"`
	Requested       bool                   `json:"requested"`
	Suggestions     []recommend.Suggestion `json:"suggestions"`
	CompletedTopics []string               `json:"completed_topics"`
	Discovery       discovery.Snapshot     `json:"discovery"`
}

// Discover asks the suggester for new topics when a discovery is pending,
// or always when force is set. It does not acknowledge; the caller does
// that once the suggestions were actually shown.
func (s *Service) Discover(ctx context.Context, userID string, force bool) (DiscoveryResult, error) {
	snap, err := s.DiscoveryState(ctx, userID)
	if err != nil {
		return DiscoveryResult{}, err
	}
	res := DiscoveryResult{
		Suggestions:     []recommend.Suggestion{},
		CompletedTopics: []string{},
		Discovery:       snap,
	}
	if !snap.ShouldShowDiscovery && !force {
		return res, nil
	}

	topics, err := s.completedTopics(ctx, userID)
	if err != nil {
		return res, err
	}
	suggestions, err := s.suggester.Suggest(ctx, topics)
	if err != nil {
		return res, fmt.Errorf("suggest topics: %w", err)
	}

	res.ID = uuid.NewString()
	res.Requested = true
	res.CompletedTopics = topics
	if suggestions != nil {
		res.Suggestions = suggestions
	}

	names := make([]string, len(res.Suggestions))
	for i, sg := range res.Suggestions {
		names[i] = sg.Topic
	}
	s.recordDiscovery(ctx, store.DiscoveryEventData{
		UserID:       userID,
		Action:       store.DiscoveryActionSuggestions,
		TotalUnlocks: snap.TotalUnlocks,
		Phase:        snap.Phase,
		Detail:       res.ID + ": " + strings.Join(names, ", "),
	})
	return res, nil
}

// completedTopics lists, in sorted order, the topics of roadmaps in which
// the user has completed at least one item.
func (s *Service) completedTopics(ctx context.Context, userID string) ([]string, error) {
	topics := []string{}
	if s.catalog == nil {
		return topics, nil
	}
	done, err := s.CompletedItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	roadmaps, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roadmaps: %w", err)
	}

	seen := make(map[string]bool)
	for _, r := range roadmaps {
		for _, it := range r.Items {
			if done.Has(it.ID) && !seen[r.Topic] {
				seen[r.Topic] = true
				topics = append(topics, r.Topic)
				break
			}
		}
	}
	sort.Strings(topics)
	return topics, nil
}
