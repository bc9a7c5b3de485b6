// Package progress is the single write path for learner progress. It turns
// quiz completions into completed-set entries and discovery transitions,
// and exposes the acknowledgment and visibility actions of the guide.
package progress

import (
	"context"
	"fmt"

	"github.com/abhisek/questmap/internal/discovery"
	"github.com/abhisek/questmap/internal/platform/logger"
	"github.com/abhisek/questmap/internal/recommend"
	"github.com/abhisek/questmap/internal/roadmap"
	"github.com/abhisek/questmap/internal/store"
)

// Store persists completed sets and discovery states. Implementations must
// make RecordUnlock atomic: the insert, the newness check and the state
// update either all happen or none do, and concurrent calls for the same
// user are serialized.
type Store interface {
	CompletedItems(ctx context.Context, userID string) (roadmap.CompletedSet, error)
	DiscoveryState(ctx context.Context, userID string) (discovery.State, error)

	// RecordUnlock adds itemID to the completed set and reports whether it
	// was new. apply runs over the discovery state only when it was.
	RecordUnlock(ctx context.Context, userID string, itemID int, apply func(discovery.State) discovery.State) (bool, discovery.State, error)

	UpdateDiscoveryState(ctx context.Context, userID string, fn func(discovery.State) discovery.State) (discovery.State, error)
}

// Catalog is the read side of the roadmap store.
type Catalog interface {
	ItemExists(ctx context.Context, itemID int) (bool, error)
	List(ctx context.Context) ([]roadmap.Roadmap, error)
}

// Service records completions and drives the discovery machine.
type Service struct {
	store     Store
	machine   *discovery.Machine
	catalog   Catalog
	events    store.EventRepo
	suggester recommend.Suggester
	log       *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCatalog makes RecordCompletion reject unknown items and lets
// Discover name the learner's topics.
func WithCatalog(c Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithEvents records attempts and discovery actions in the event log.
func WithEvents(r store.EventRepo) Option {
	return func(s *Service) { s.events = r }
}

// WithSuggester sets the collaborator Discover asks for topics.
func WithSuggester(sg recommend.Suggester) Option {
	return func(s *Service) { s.suggester = sg }
}

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a Service. A nil machine uses the default schedule.
func NewService(st Store, machine *discovery.Machine, opts ...Option) *Service {
	if machine == nil {
		machine = discovery.NewMachine(discovery.DefaultSchedule())
	}
	s := &Service{
		store:     st,
		machine:   machine,
		suggester: recommend.NewStatic(),
		log:       logger.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Machine returns the discovery machine the service applies.
func (s *Service) Machine() *discovery.Machine {
	return s.machine
}

// CompletionResult is what the presentation layer needs to react to a
// quiz submission. Unlocked is true only for a perfect score; IsNewUnlock
// additionally requires the item to have been locked before.
type CompletionResult struct {
	Success     bool                  `json:"success"`
	IsNewUnlock bool                  `json:"is_new_unlock"`
	Unlocked    bool                  `json:"unlocked"`
	ItemID      int                   `json:"roadmap_item_id"`
	Discovery   discovery.Snapshot    `json:"discovery"`
	Transition  *discovery.Transition `json:"-"`
}

// RecordCompletion handles one quiz submission. Only a perfect score with
// at least one question changes state; other valid scores succeed as
// no-ops. On error nothing has been recorded.
func (s *Service) RecordCompletion(ctx context.Context, userID string, itemID, score, totalQuestions int) (CompletionResult, error) {
	res := CompletionResult{ItemID: itemID}
	if err := validateScore(score, totalQuestions); err != nil {
		return res, err
	}
	if s.catalog != nil {
		ok, err := s.catalog.ItemExists(ctx, itemID)
		if err != nil {
			return res, fmt.Errorf("look up item %d: %w", itemID, err)
		}
		if !ok {
			return res, fmt.Errorf("item %d: %w", itemID, ErrItemNotFound)
		}
	}

	perfect := totalQuestions > 0 && score == totalQuestions
	if !perfect {
		st, err := s.store.DiscoveryState(ctx, userID)
		if err != nil {
			return res, fmt.Errorf("load discovery state: %w", err)
		}
		res.Success = true
		res.Discovery = s.machine.Snapshot(st)
		s.recordAttempt(ctx, userID, itemID, score, totalQuestions, false, false)
		return res, nil
	}

	var tr *discovery.Transition
	added, st, err := s.store.RecordUnlock(ctx, userID, itemID, func(cur discovery.State) discovery.State {
		next, t := s.machine.OnItemUnlocked(cur)
		tr = t
		return next
	})
	if err != nil {
		return res, fmt.Errorf("record unlock: %w", err)
	}
	if !added {
		// apply may have run on an attempt the store then rolled back
		tr = nil
	}

	res.Success = true
	res.Unlocked = true
	res.IsNewUnlock = added
	res.Discovery = s.machine.Snapshot(st)
	res.Transition = tr

	s.recordAttempt(ctx, userID, itemID, score, totalQuestions, true, added)
	if added {
		s.log.Info("item unlocked", "user_id", userID, "item_id", itemID, "total_unlocks", st.TotalUnlocks)
	}
	if tr != nil {
		s.log.Info("discovery threshold crossed",
			"user_id", userID,
			"threshold", tr.Threshold,
			"from_phase", tr.FromPhase,
			"to_phase", tr.ToPhase,
		)
		s.recordDiscovery(ctx, store.DiscoveryEventData{
			UserID:       userID,
			Action:       store.DiscoveryActionThreshold,
			TotalUnlocks: tr.TotalUnlocks,
			Phase:        tr.ToPhase,
			Detail:       fmt.Sprintf("threshold %d", tr.Threshold),
		})
	}
	return res, nil
}

// CompletedItems returns the user's completed set.
func (s *Service) CompletedItems(ctx context.Context, userID string) (roadmap.CompletedSet, error) {
	set, err := s.store.CompletedItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load completed items: %w", err)
	}
	return set, nil
}

// DiscoveryState returns the presentation snapshot of the user's guide.
func (s *Service) DiscoveryState(ctx context.Context, userID string) (discovery.Snapshot, error) {
	st, err := s.store.DiscoveryState(ctx, userID)
	if err != nil {
		return discovery.Snapshot{}, fmt.Errorf("load discovery state: %w", err)
	}
	return s.machine.Snapshot(st), nil
}

// AcknowledgeDiscovery marks the pending discovery as shown.
func (s *Service) AcknowledgeDiscovery(ctx context.Context, userID string) (discovery.Snapshot, error) {
	st, err := s.store.UpdateDiscoveryState(ctx, userID, s.machine.Acknowledge)
	if err != nil {
		return discovery.Snapshot{}, fmt.Errorf("acknowledge discovery: %w", err)
	}
	snap := s.machine.Snapshot(st)
	s.recordDiscovery(ctx, store.DiscoveryEventData{
		UserID:       userID,
		Action:       store.DiscoveryActionAcknowledge,
		TotalUnlocks: snap.TotalUnlocks,
		Phase:        snap.Phase,
	})
	return snap, nil
}

// SetGuideVisible stores the user's display preference. It never asks for
// suggestions.
func (s *Service) SetGuideVisible(ctx context.Context, userID string, visible bool) (discovery.Snapshot, error) {
	st, err := s.store.UpdateDiscoveryState(ctx, userID, func(cur discovery.State) discovery.State {
		return s.machine.SetVisible(cur, visible)
	})
	if err != nil {
		return discovery.Snapshot{}, fmt.Errorf("set guide visibility: %w", err)
	}
	snap := s.machine.Snapshot(st)
	s.recordDiscovery(ctx, store.DiscoveryEventData{
		UserID:       userID,
		Action:       store.DiscoveryActionVisibility,
		TotalUnlocks: snap.TotalUnlocks,
		Phase:        snap.Phase,
		Detail:       fmt.Sprintf("visible=%t", visible),
	})
	return snap, nil
}

func (s *Service) recordAttempt(ctx context.Context, userID string, itemID, score, total int, perfect, newUnlock bool) {
	if s.events == nil {
		return
	}
	err := s.events.AppendAttempt(ctx, store.AttemptEventData{
		UserID:         userID,
		ItemID:         itemID,
		Score:          score,
		TotalQuestions: total,
		Perfect:        perfect,
		NewUnlock:      newUnlock,
	})
	if err != nil {
		s.log.Warn("failed to record attempt event", "user_id", userID, "item_id", itemID, "error", err)
	}
}

func (s *Service) recordDiscovery(ctx context.Context, data store.DiscoveryEventData) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendDiscovery(ctx, data); err != nil {
		s.log.Warn("failed to record discovery event", "user_id", data.UserID, "action", data.Action, "error", err)
	}
}
