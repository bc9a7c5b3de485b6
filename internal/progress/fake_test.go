package progress

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/questmap/internal/discovery"
	"github.com/abhisek/questmap/internal/roadmap"
)

// memStore is an in-memory Store guarded by one mutex.
type memStore struct {
	mu        sync.Mutex
	completed map[string]roadmap.CompletedSet
	states    map[string]discovery.State
	failNext  bool
}

func newMemStore() *memStore {
	return &memStore{
		completed: make(map[string]roadmap.CompletedSet),
		states:    make(map[string]discovery.State),
	}
}

var errInjected = errors.New("injected failure")

func (m *memStore) CompletedItems(_ context.Context, userID string) (roadmap.CompletedSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return roadmap.NewCompletedSet(m.completed[userID].IDs()...), nil
}

func (m *memStore) DiscoveryState(_ context.Context, userID string) (discovery.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state(userID), nil
}

func (m *memStore) RecordUnlock(_ context.Context, userID string, itemID int, apply func(discovery.State) discovery.State) (bool, discovery.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return false, discovery.State{}, errInjected
	}

	set := m.completed[userID]
	if set == nil {
		set = roadmap.NewCompletedSet()
		m.completed[userID] = set
	}
	st := m.state(userID)
	if !set.Add(itemID) {
		return false, st, nil
	}
	st = apply(st)
	m.states[userID] = st
	return true, st, nil
}

func (m *memStore) UpdateDiscoveryState(_ context.Context, userID string, fn func(discovery.State) discovery.State) (discovery.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := fn(m.state(userID))
	m.states[userID] = st
	return st, nil
}

func (m *memStore) state(userID string) discovery.State {
	if st, ok := m.states[userID]; ok {
		return st
	}
	return discovery.NewState()
}

type memCatalog struct {
	roadmaps []roadmap.Roadmap
}

func (c *memCatalog) ItemExists(_ context.Context, itemID int) (bool, error) {
	for _, r := range c.roadmaps {
		if _, ok := r.Item(itemID); ok {
			return true, nil
		}
	}
	return false, nil
}

func (c *memCatalog) List(context.Context) ([]roadmap.Roadmap, error) {
	return c.roadmaps, nil
}
