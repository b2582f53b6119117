package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type slidingLog struct {
	mu     sync.Mutex
	stamps []time.Time
}

type memoryLimiter struct {
	logs *xsync.MapOf[string, *slidingLog]
}

// NewMemoryLimiter keeps a sliding log of admitted messages per (actor, room) in process.
func NewMemoryLimiter() Limiter {
	return &memoryLimiter{
		logs: xsync.NewMapOf[string, *slidingLog](),
	}
}

func (l *memoryLimiter) Allow(_ context.Context, actorID, roomID string, limit int, now time.Time) (bool, error) {
	log, _ := l.logs.LoadOrCompute(key(actorID, roomID), func() *slidingLog {
		return &slidingLog{}
	})
	log.mu.Lock()
	defer log.mu.Unlock()

	windowStart := now.Add(-Window)
	kept := log.stamps[:0]
	for _, ts := range log.stamps {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}
	log.stamps = kept

	if len(log.stamps) >= limit {
		return false, nil
	}
	log.stamps = append(log.stamps, now)
	return true, nil
}

func (l *memoryLimiter) Reset(_ context.Context, actorID, roomID string) error {
	l.logs.Delete(key(actorID, roomID))
	return nil
}
