package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
	"github.com/puzpuzpuz/xsync/v3"
)

const (
	activityEventsField      = "events"
	DefaultActivityRetention = 30 * 24 * time.Hour
)

type activityCounter struct {
	mu     sync.Mutex
	counts trust.ActivityCounts
}

type memoryActivityStore struct {
	counters *xsync.MapOf[string, *activityCounter]
}

func NewMemoryActivityStore() trust.ActivityStore {
	return &memoryActivityStore{
		counters: xsync.NewMapOf[string, *activityCounter](),
	}
}

func (s *memoryActivityStore) counter(actorID, contextID string) *activityCounter {
	c, _ := s.counters.LoadOrCompute(activityKey(actorID, contextID), func() *activityCounter {
		return &activityCounter{}
	})
	return c
}

func (s *memoryActivityStore) Record(_ context.Context, actorID, contextID string, kind trust.ActivityKind) (trust.ActivityCounts, error) {
	c := s.counter(actorID, contextID)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts.Events++
	switch kind {
	case trust.ActivityToxic:
		c.counts.Toxic++
	case trust.ActivitySpam:
		c.counts.Spam++
	}
	return c.counts, nil
}

func (s *memoryActivityStore) Counts(_ context.Context, actorID, contextID string) (trust.ActivityCounts, error) {
	c, ok := s.counters.Load(activityKey(actorID, contextID))
	if !ok {
		return trust.ActivityCounts{}, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts, nil
}

type redisActivityStore struct {
	client    Client
	retention time.Duration
}

// NewRedisActivityStore keeps activity counters in a redis hash per (actor, context).
func NewRedisActivityStore(client Client, retention time.Duration) trust.ActivityStore {
	if retention <= 0 {
		retention = DefaultActivityRetention
	}
	return &redisActivityStore{client: client, retention: retention}
}

func (s *redisActivityStore) Record(ctx context.Context, actorID, contextID string, kind trust.ActivityKind) (trust.ActivityCounts, error) {
	key := activityKey(actorID, contextID)
	pipe := s.client.RedisClient().TxPipeline()
	pipe.HIncrBy(ctx, key, activityEventsField, 1)
	if kind == trust.ActivityToxic || kind == trust.ActivitySpam {
		pipe.HIncrBy(ctx, key, string(kind), 1)
	}
	pipe.Expire(ctx, key, s.retention)
	all := pipe.HGetAll(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return trust.ActivityCounts{}, fmt.Errorf("failed to execute activity pipeline: %w", err)
	}
	return parseActivityCounts(all.Val())
}

func (s *redisActivityStore) Counts(ctx context.Context, actorID, contextID string) (trust.ActivityCounts, error) {
	values, err := s.client.RedisClient().HGetAll(ctx, activityKey(actorID, contextID)).Result()
	if err != nil {
		return trust.ActivityCounts{}, fmt.Errorf("failed to load activity counts: %w", err)
	}
	return parseActivityCounts(values)
}

func parseActivityCounts(values map[string]string) (trust.ActivityCounts, error) {
	var counts trust.ActivityCounts
	fields := map[string]*int64{
		activityEventsField:         &counts.Events,
		string(trust.ActivityToxic): &counts.Toxic,
		string(trust.ActivitySpam):  &counts.Spam,
	}
	for field, dst := range fields {
		raw, ok := values[field]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return trust.ActivityCounts{}, fmt.Errorf("invalid activity counter %s=%q: %w", field, raw, err)
		}
		*dst = n
	}
	return counts, nil
}

func activityKey(actorID, contextID string) string {
	return fmt.Sprintf(ActivityKeyPattern, contextID, actorID)
}
