package trust

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "github.com/NeuralTrust/TrustMod/pkg/domain/trust"
	"github.com/NeuralTrust/TrustMod/pkg/infra/prometheus"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sirupsen/logrus"
)

const (
	DefaultStaleness         = 24 * time.Hour
	DefaultActivityThreshold = 10
)

//go:generate mockery --name=Engine --dir=. --output=./mocks --filename=engine_mock.go --case=underscore --with-expecter
type Engine interface {
	GetProfile(ctx context.Context, actorID, contextID string, activity domain.ActivityData, opts ...ProfileOption) (domain.Profile, error)
	RecordActivity(ctx context.Context, actorID, contextID string, kind domain.ActivityKind) (domain.ActivityCounts, error)
	Invalidate(ctx context.Context, actorID, contextID string) error
}

type profileRequest struct {
	force bool
}

type ProfileOption func(*profileRequest)

// WithForceRecalculation bypasses the cached profile.
func WithForceRecalculation() ProfileOption {
	return func(r *profileRequest) {
		r.force = true
	}
}

type Option func(*engine)

func WithClock(clock func() time.Time) Option {
	return func(e *engine) {
		e.clock = clock
	}
}

func WithStaleness(d time.Duration) Option {
	return func(e *engine) {
		if d > 0 {
			e.staleness = d
		}
	}
}

func WithActivityThreshold(n int64) Option {
	return func(e *engine) {
		if n > 0 {
			e.activityThreshold = n
		}
	}
}

type engine struct {
	logger            *logrus.Logger
	cache             domain.ProfileCache
	activity          domain.ActivityStore
	locks             *xsync.MapOf[string, *sync.Mutex]
	clock             func() time.Time
	staleness         time.Duration
	activityThreshold int64
}

func NewEngine(logger *logrus.Logger, cache domain.ProfileCache, activity domain.ActivityStore, opts ...Option) Engine {
	e := &engine{
		logger:            logger,
		cache:             cache,
		activity:          activity,
		locks:             xsync.NewMapOf[string, *sync.Mutex](),
		clock:             time.Now,
		staleness:         DefaultStaleness,
		activityThreshold: DefaultActivityThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *engine) lock(actorID, contextID string) func() {
	mu, _ := e.locks.LoadOrCompute(profileKey(actorID, contextID), func() *sync.Mutex {
		return &sync.Mutex{}
	})
	mu.Lock()
	return mu.Unlock
}

// GetProfile returns the cached profile unless it was forced, is older than the staleness
// window, or enough new activity has been recorded since it was computed.
func (e *engine) GetProfile(
	ctx context.Context,
	actorID, contextID string,
	activity domain.ActivityData,
	opts ...ProfileOption,
) (domain.Profile, error) {
	req := profileRequest{}
	for _, opt := range opts {
		opt(&req)
	}

	unlock := e.lock(actorID, contextID)
	defer unlock()

	counts, err := e.activity.Counts(ctx, actorID, contextID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to load activity counts: %w", err)
	}

	now := e.clock()
	if !req.force {
		cached, found, err := e.cache.Get(ctx, actorID, contextID)
		if err != nil {
			e.logger.WithError(err).WithFields(logrus.Fields{
				"actor_id":   actorID,
				"context_id": contextID,
			}).Warn("failed to read cached trust profile")
		}
		if found && e.fresh(cached, counts, now) {
			prometheus.TrustCacheLookups.WithLabelValues("hit").Inc()
			return cached.Profile, nil
		}
	}
	prometheus.TrustCacheLookups.WithLabelValues("miss").Inc()

	activity.ToxicFlags += int(counts.Toxic)
	activity.SpamFlags += int(counts.Spam)

	profile := ComputeProfile(actorID, contextID, activity, now)
	if err := e.cache.Set(ctx, domain.CachedProfile{Profile: profile, EventsAtCalc: counts.Events}); err != nil {
		e.logger.WithError(err).WithField("actor_id", actorID).Warn("failed to cache trust profile")
	}

	e.logger.WithFields(logrus.Fields{
		"actor_id":      actorID,
		"context_id":    contextID,
		"overall_score": profile.OverallScore,
		"rank":          profile.Rank,
		"degraded":      profile.Degraded,
		"patterns":      profile.AppliedPatterns,
		"forced":        req.force,
	}).Debug("trust profile computed")

	return profile, nil
}

func (e *engine) fresh(cached *domain.CachedProfile, counts domain.ActivityCounts, now time.Time) bool {
	if now.Sub(cached.Profile.CalculatedAt) > e.staleness {
		return false
	}
	return counts.Events-cached.EventsAtCalc < e.activityThreshold
}

func (e *engine) RecordActivity(
	ctx context.Context,
	actorID, contextID string,
	kind domain.ActivityKind,
) (domain.ActivityCounts, error) {
	counts, err := e.activity.Record(ctx, actorID, contextID, kind)
	if err != nil {
		return domain.ActivityCounts{}, fmt.Errorf("failed to record %s activity: %w", kind, err)
	}
	return counts, nil
}

func (e *engine) Invalidate(ctx context.Context, actorID, contextID string) error {
	unlock := e.lock(actorID, contextID)
	defer unlock()
	return e.cache.Delete(ctx, actorID, contextID)
}

func profileKey(actorID, contextID string) string {
	return contextID + "/" + actorID
}
