package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/questmap/internal/discovery"
	"github.com/abhisek/questmap/internal/roadmap"
)

// maxTxRetries bounds optimistic-lock retries per operation.
const maxTxRetries = 16

// ErrContention is returned when an update keeps losing WATCH races.
var ErrContention = errors.New("progress update aborted after repeated contention")

// ProgressStore keeps completed sets in Redis sets and discovery states in
// hashes. Updates use WATCH/MULTI so a completion either lands together
// with its discovery update or not at all.
type ProgressStore struct {
	client *redis.Client
	prefix string
}

// NewProgressStore creates a store whose keys start with prefix.
func NewProgressStore(c *Cache, prefix string) *ProgressStore {
	if prefix == "" {
		prefix = "questmap"
	}
	return &ProgressStore{client: c.Client, prefix: prefix}
}

func (s *ProgressStore) completedKey(userID string) string {
	return s.prefix + ":completed:" + userID
}

func (s *ProgressStore) discoveryKey(userID string) string {
	return s.prefix + ":discovery:" + userID
}

func (s *ProgressStore) CompletedItems(ctx context.Context, userID string) (roadmap.CompletedSet, error) {
	members, err := s.client.SMembers(ctx, s.completedKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read completed items: %w", err)
	}
	set := roadmap.NewCompletedSet()
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		set.Add(id)
	}
	return set, nil
}

func (s *ProgressStore) DiscoveryState(ctx context.Context, userID string) (discovery.State, error) {
	return readState(ctx, s.client, s.discoveryKey(userID))
}

func (s *ProgressStore) RecordUnlock(ctx context.Context, userID string, itemID int, apply func(discovery.State) discovery.State) (bool, discovery.State, error) {
	ckey, dkey := s.completedKey(userID), s.discoveryKey(userID)
	member := strconv.Itoa(itemID)

	var (
		added bool
		st    discovery.State
	)
	txf := func(tx *redis.Tx) error {
		added = false
		present, err := tx.SIsMember(ctx, ckey, member).Result()
		if err != nil {
			return err
		}
		st, err = readState(ctx, tx, dkey)
		if err != nil {
			return err
		}
		if present {
			return nil
		}

		next := apply(st)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SAdd(ctx, ckey, member)
			pipe.HSet(ctx, dkey, stateFields(next))
			return nil
		})
		if err != nil {
			return err
		}
		added, st = true, next
		return nil
	}

	if err := s.watch(ctx, txf, ckey, dkey); err != nil {
		return false, discovery.State{}, fmt.Errorf("record unlock: %w", err)
	}
	return added, st, nil
}

func (s *ProgressStore) UpdateDiscoveryState(ctx context.Context, userID string, fn func(discovery.State) discovery.State) (discovery.State, error) {
	dkey := s.discoveryKey(userID)
	var st discovery.State
	txf := func(tx *redis.Tx) error {
		cur, err := readState(ctx, tx, dkey)
		if err != nil {
			return err
		}
		next := fn(cur)
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, dkey, stateFields(next))
			return nil
		}); err != nil {
			return err
		}
		st = next
		return nil
	}
	if err := s.watch(ctx, txf, dkey); err != nil {
		return discovery.State{}, fmt.Errorf("update discovery state: %w", err)
	}
	return st, nil
}

// RemoveItems drops the items from every user's completed set.
func (s *ProgressStore) RemoveItems(ctx context.Context, itemIDs []int) error {
	if len(itemIDs) == 0 {
		return nil
	}
	members := make([]any, len(itemIDs))
	for i, id := range itemIDs {
		members[i] = strconv.Itoa(id)
	}

	iter := s.client.Scan(ctx, 0, s.prefix+":completed:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.SRem(ctx, iter.Val(), members...).Err(); err != nil {
			return fmt.Errorf("remove completed items: %w", err)
		}
	}
	return iter.Err()
}

func (s *ProgressStore) watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	for range maxTxRetries {
		err := s.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrContention
}

func stateFields(st discovery.State) map[string]any {
	return map[string]any{
		"total_unlocks":   st.TotalUnlocks,
		"acknowledged_at": st.AcknowledgedAt,
		"visible":         strconv.FormatBool(st.Visible),
	}
}

type hashReader interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

func readState(ctx context.Context, c hashReader, key string) (discovery.State, error) {
	vals, err := c.HGetAll(ctx, key).Result()
	if err != nil {
		return discovery.State{}, fmt.Errorf("read discovery state: %w", err)
	}
	return parseState(vals)
}

// parseState decodes a discovery hash. A missing hash is a fresh state.
func parseState(vals map[string]string) (discovery.State, error) {
	st := discovery.NewState()
	if len(vals) == 0 {
		return st, nil
	}
	var err error
	if v, ok := vals["total_unlocks"]; ok {
		if st.TotalUnlocks, err = strconv.Atoi(v); err != nil {
			return st, fmt.Errorf("decode total_unlocks: %w", err)
		}
	}
	if v, ok := vals["acknowledged_at"]; ok {
		if st.AcknowledgedAt, err = strconv.Atoi(v); err != nil {
			return st, fmt.Errorf("decode acknowledged_at: %w", err)
		}
	}
	if v, ok := vals["visible"]; ok {
		if st.Visible, err = strconv.ParseBool(v); err != nil {
			return st, fmt.Errorf("decode visible: %w", err)
		}
	}
	return st, nil
}
