package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const keyPattern = "ratelimit:%s:%s"

// slidingWindow prunes, counts and records in one step so concurrent callers on the same
// key cannot both take the last slot.
// KEYS[1] window key; ARGV: window start, now, limit, member, ttl in ms.
var slidingWindow = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

func windowArgs(now time.Time, limit int, member string) []interface{} {
	return []interface{}{
		now.Add(-Window).UnixMilli(),
		now.UnixMilli(),
		limit,
		member,
		Window.Milliseconds(),
	}
}

type RedisOption func(*redisLimiter)

// WithUUIDProvider replaces the generator used to make sorted set members unique.
func WithUUIDProvider(fn func() uuid.UUID) RedisOption {
	return func(l *redisLimiter) {
		l.newUUID = fn
	}
}

type redisLimiter struct {
	redis   *redis.Client
	logger  *logrus.Logger
	newUUID func() uuid.UUID
}

// NewRedisLimiter shares the sliding window between replicas using one sorted set per (actor, room).
func NewRedisLimiter(client *redis.Client, logger *logrus.Logger, opts ...RedisOption) Limiter {
	l := &redisLimiter{
		redis:   client,
		logger:  logger,
		newUUID: uuid.New,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *redisLimiter) Allow(ctx context.Context, actorID, roomID string, limit int, now time.Time) (bool, error) {
	k := key(actorID, roomID)
	current := now.UnixMilli()
	member := strconv.FormatInt(current, 10) + ":" + l.newUUID().String()

	admitted, err := slidingWindow.Run(ctx, l.redis, []string{k}, windowArgs(now, limit, member)...).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to apply sliding window: %w", err)
	}
	if admitted == 0 {
		l.logger.WithFields(logrus.Fields{
			"actor_id": actorID,
			"room_id":  roomID,
			"limit":    limit,
		}).Debug("message rate limit exceeded")
		return false, nil
	}
	return true, nil
}

func (l *redisLimiter) Reset(ctx context.Context, actorID, roomID string) error {
	return l.redis.Del(ctx, key(actorID, roomID)).Err()
}

func key(actorID, roomID string) string {
	return fmt.Sprintf(keyPattern, roomID, actorID)
}
