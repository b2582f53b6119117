package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DefaultProfileTTL = 24 * time.Hour

type memoryProfileCache struct {
	lru *expirable.LRU[string, trust.CachedProfile]
}

// NewMemoryProfileCache keeps up to capacity profiles in process, each for at most ttl.
func NewMemoryProfileCache(capacity int, ttl time.Duration) trust.ProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &memoryProfileCache{
		lru: expirable.NewLRU[string, trust.CachedProfile](capacity, nil, ttl),
	}
}

func (c *memoryProfileCache) Get(_ context.Context, actorID, contextID string) (*trust.CachedProfile, bool, error) {
	entry, ok := c.lru.Get(profileCacheKey(actorID, contextID))
	if !ok {
		return nil, false, nil
	}
	return &entry, true, nil
}

func (c *memoryProfileCache) Set(_ context.Context, entry trust.CachedProfile) error {
	c.lru.Add(profileCacheKey(entry.Profile.ActorID, entry.Profile.ContextID), entry)
	return nil
}

func (c *memoryProfileCache) Delete(_ context.Context, actorID, contextID string) error {
	c.lru.Remove(profileCacheKey(actorID, contextID))
	return nil
}

type redisProfileCache struct {
	client Client
	ttl    time.Duration
}

// NewRedisProfileCache shares profiles between engine replicas through redis.
func NewRedisProfileCache(client Client, ttl time.Duration) trust.ProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &redisProfileCache{client: client, ttl: ttl}
}

func (c *redisProfileCache) Get(ctx context.Context, actorID, contextID string) (*trust.CachedProfile, bool, error) {
	raw, err := c.client.Get(ctx, profileCacheKey(actorID, contextID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get trust profile from cache: %w", err)
	}
	var entry trust.CachedProfile
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached trust profile: %w", err)
	}
	return &entry, true, nil
}

func (c *redisProfileCache) Set(ctx context.Context, entry trust.CachedProfile) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal trust profile: %w", err)
	}
	return c.client.Set(ctx, profileCacheKey(entry.Profile.ActorID, entry.Profile.ContextID), string(data), c.ttl)
}

func (c *redisProfileCache) Delete(ctx context.Context, actorID, contextID string) error {
	return c.client.Delete(ctx, profileCacheKey(actorID, contextID))
}

func profileCacheKey(actorID, contextID string) string {
	return fmt.Sprintf(TrustProfileKeyPattern, contextID, actorID)
}
