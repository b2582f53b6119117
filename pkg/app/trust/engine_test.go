package trust

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	domain "github.com/NeuralTrust/TrustMod/pkg/domain/trust"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T) (Engine, domain.ActivityStore, *fakeClock) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	clock := &fakeClock{now: testNow}
	activity := cache.NewMemoryActivityStore()
	e := NewEngine(logger, cache.NewMemoryProfileCache(100, 48*time.Hour), activity, WithClock(clock.Now))
	return e, activity, clock
}

func TestEngine_GetProfileIsCached(t *testing.T) {
	ctx := context.Background()
	e, _, clock := newTestEngine(t)
	data := domain.ActivityData{Signals: uniformSignals(0.25)}

	first, err := e.GetProfile(ctx, "alice", "room-1", data)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, first.OverallScore, 1e-9)

	clock.Advance(time.Hour)
	second, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{Signals: uniformSignals(0.9)})
	require.NoError(t, err)
	assert.Equal(t, first.CalculatedAt, second.CalculatedAt)
	assert.Equal(t, first.OverallScore, second.OverallScore)
}

func TestEngine_ForceRecalculation(t *testing.T) {
	ctx := context.Background()
	e, _, clock := newTestEngine(t)

	first, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{Signals: uniformSignals(0.25)})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	forced, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{Signals: uniformSignals(0.9)}, WithForceRecalculation())
	require.NoError(t, err)
	assert.True(t, forced.CalculatedAt.After(first.CalculatedAt))
	assert.InDelta(t, 0.9, forced.OverallScore, 1e-9)
}

func TestEngine_RecomputesWhenStale(t *testing.T) {
	ctx := context.Background()
	e, _, clock := newTestEngine(t)

	first, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{})
	require.NoError(t, err)

	clock.Advance(DefaultStaleness)
	same, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{})
	require.NoError(t, err)
	assert.Equal(t, first.CalculatedAt, same.CalculatedAt)

	clock.Advance(time.Second)
	fresh, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{})
	require.NoError(t, err)
	assert.True(t, fresh.CalculatedAt.After(first.CalculatedAt))
}

func TestEngine_RecomputesAfterActivityThreshold(t *testing.T) {
	ctx := context.Background()
	e, _, clock := newTestEngine(t)

	first, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{})
	require.NoError(t, err)

	for i := 0; i < DefaultActivityThreshold-1; i++ {
		_, err := e.RecordActivity(ctx, "alice", "room-1", domain.ActivityMessage)
		require.NoError(t, err)
	}
	clock.Advance(time.Minute)
	cached, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{})
	require.NoError(t, err)
	assert.Equal(t, first.CalculatedAt, cached.CalculatedAt)

	_, err = e.RecordActivity(ctx, "alice", "room-1", domain.ActivityMessage)
	require.NoError(t, err)
	recomputed, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{})
	require.NoError(t, err)
	assert.True(t, recomputed.CalculatedAt.After(first.CalculatedAt))
}

func TestEngine_RecordedFlagsFeedPatterns(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t)

	for i := 0; i < 3; i++ {
		_, err := e.RecordActivity(ctx, "mallory", "room-1", domain.ActivityToxic)
		require.NoError(t, err)
	}
	p, err := e.GetProfile(ctx, "mallory", "room-1", domain.ActivityData{Signals: uniformSignals(0.5)})
	require.NoError(t, err)
	assert.Contains(t, p.AppliedPatterns, domain.PatternToxicBehavior)
}

func TestEngine_Invalidate(t *testing.T) {
	ctx := context.Background()
	e, _, clock := newTestEngine(t)

	first, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{})
	require.NoError(t, err)
	require.NoError(t, e.Invalidate(ctx, "alice", "room-1"))

	clock.Advance(time.Second)
	next, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{})
	require.NoError(t, err)
	assert.True(t, next.CalculatedAt.After(first.CalculatedAt))
}

func TestEngine_ContextsAreIndependent(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t)

	a, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{Signals: uniformSignals(0.9)})
	require.NoError(t, err)
	b, err := e.GetProfile(ctx, "alice", "room-2", domain.ActivityData{Signals: uniformSignals(0.1)})
	require.NoError(t, err)
	assert.NotEqual(t, a.OverallScore, b.OverallScore)
}

type failingActivityStore struct{}

func (failingActivityStore) Record(context.Context, string, string, domain.ActivityKind) (domain.ActivityCounts, error) {
	return domain.ActivityCounts{}, errors.New("store down")
}

func (failingActivityStore) Counts(context.Context, string, string) (domain.ActivityCounts, error) {
	return domain.ActivityCounts{}, errors.New("store down")
}

func TestEngine_ActivityStoreErrors(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	e := NewEngine(logger, cache.NewMemoryProfileCache(10, time.Hour), failingActivityStore{})

	_, err := e.GetProfile(context.Background(), "alice", "room-1", domain.ActivityData{})
	assert.Error(t, err)
	_, err = e.RecordActivity(context.Background(), "alice", "room-1", domain.ActivityMessage)
	assert.Error(t, err)
}

func TestEngine_ConcurrentGetProfile(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newTestEngine(t)

	var wg sync.WaitGroup
	results := make([]domain.Profile, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := e.GetProfile(ctx, "alice", "room-1", domain.ActivityData{Signals: uniformSignals(0.4)})
			assert.NoError(t, err)
			results[i] = p
		}(i)
	}
	wg.Wait()
	for _, p := range results {
		assert.Equal(t, results[0].CalculatedAt, p.CalculatedAt)
	}
}
