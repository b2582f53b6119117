package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

//go:generate mockery --name=PolicyFinder --dir=. --output=./mocks --filename=policy_finder_mock.go --case=underscore --with-expecter
type PolicyFinder interface {
	// Find returns the stored policy for roomID or, for rooms without one, the default policy.
	Find(ctx context.Context, roomID string) (*moderation.RoomPolicy, error)
}

type policyFinder struct {
	repo        moderation.RoomPolicyRepository
	memoryCache *cache.TTLMap
	defaults    moderation.RoomPolicy
	group       singleflight.Group
	logger      *logrus.Logger
}

// NewPolicyFinder reads through memoryCache into repo. defaults is copied for unknown rooms
// with its ContextID replaced.
func NewPolicyFinder(
	repo moderation.RoomPolicyRepository,
	memoryCache *cache.TTLMap,
	defaults moderation.RoomPolicy,
	logger *logrus.Logger,
) PolicyFinder {
	return &policyFinder{
		repo:        repo,
		memoryCache: memoryCache,
		defaults:    defaults,
		logger:      logger,
	}
}

func (f *policyFinder) Find(ctx context.Context, roomID string) (*moderation.RoomPolicy, error) {
	if cached, ok := f.memoryCache.Get(roomID); ok {
		if p, ok := cached.(*moderation.RoomPolicy); ok {
			return p, nil
		}
		f.logger.WithField("room_id", roomID).Error("invalid room policy type in memory cache")
		f.memoryCache.Delete(roomID)
	}

	v, err, _ := f.group.Do(roomID, func() (interface{}, error) {
		p, err := f.repo.Get(ctx, roomID)
		if err != nil {
			if !errors.Is(err, moderation.ErrRoomPolicyNotFound) {
				return nil, fmt.Errorf("failed to load room policy: %w", err)
			}
			p = f.defaultFor(roomID)
			f.logger.WithField("room_id", roomID).Debug("no room policy stored, using default")
		}
		f.memoryCache.Set(roomID, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	policy, ok := v.(*moderation.RoomPolicy)
	if !ok {
		return nil, fmt.Errorf("invalid room policy type %T", v)
	}
	return policy, nil
}

func (f *policyFinder) defaultFor(roomID string) *moderation.RoomPolicy {
	p := f.defaults
	p.ContextID = roomID
	if !p.ModerationLevel.Valid() {
		p.ModerationLevel = moderation.LevelModerate
	}
	if len(f.defaults.AllowedActions) > 0 {
		p.AllowedActions = append(moderation.ActionsJSON(nil), f.defaults.AllowedActions...)
	}
	return &p
}
