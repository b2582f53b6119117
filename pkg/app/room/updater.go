package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

var ErrInvalidPolicy = errors.New("invalid room policy")

//go:generate mockery --name=PolicyUpdater --dir=. --output=./mocks --filename=policy_updater_mock.go --case=underscore --with-expecter
type PolicyUpdater interface {
	Update(ctx context.Context, policy *moderation.RoomPolicy) error
}

type policyUpdater struct {
	repo        moderation.RoomPolicyRepository
	memoryCache *cache.TTLMap
	publisher   cache.EventPublisher
	logger      *logrus.Logger
	clock       func() time.Time
}

func NewPolicyUpdater(
	repo moderation.RoomPolicyRepository,
	memoryCache *cache.TTLMap,
	publisher cache.EventPublisher,
	logger *logrus.Logger,
) PolicyUpdater {
	return &policyUpdater{
		repo:        repo,
		memoryCache: memoryCache,
		publisher:   publisher,
		logger:      logger,
		clock:       time.Now,
	}
}

// Update validates and stores policy, then drops it from every replica's memory cache.
func (u *policyUpdater) Update(ctx context.Context, policy *moderation.RoomPolicy) error {
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	now := u.clock()
	if policy.CreatedAt.IsZero() {
		policy.CreatedAt = now
	}
	policy.UpdatedAt = now

	if err := u.repo.Save(ctx, policy); err != nil {
		return fmt.Errorf("failed to save room policy: %w", err)
	}
	u.memoryCache.Delete(policy.ContextID)

	if err := u.publisher.Publish(ctx, event.DeleteRoomPolicyCacheEvent{RoomID: policy.ContextID}); err != nil {
		u.logger.WithError(err).WithField("room_id", policy.ContextID).Warn("failed to publish room policy invalidation")
	}
	return nil
}
