package subscriber

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type DeleteTrustProfileCacheEventSubscriber struct {
	logger   *logrus.Logger
	profiles trust.ProfileCache
}

func NewDeleteTrustProfileCacheEventSubscriber(
	logger *logrus.Logger,
	profiles trust.ProfileCache,
) cache.EventSubscriber[event.DeleteTrustProfileCacheEvent] {
	return &DeleteTrustProfileCacheEventSubscriber{
		logger:   logger,
		profiles: profiles,
	}
}

func (s DeleteTrustProfileCacheEventSubscriber) OnEvent(ctx context.Context, evt event.DeleteTrustProfileCacheEvent) error {
	s.logger.WithFields(logrus.Fields{
		"actor_id":   evt.ActorID,
		"context_id": evt.ContextID,
	}).Debug("invalidating trust profile cache")
	if err := s.profiles.Delete(ctx, evt.ActorID, evt.ContextID); err != nil {
		return fmt.Errorf("failed to delete cached trust profile: %w", err)
	}
	return nil
}
