package subscriber

import (
	"context"

	"github.com/NeuralTrust/TrustMod/pkg/infra/cache"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type DeleteRoomPolicyCacheEventSubscriber struct {
	logger      *logrus.Logger
	memoryCache *cache.TTLMap
}

func NewDeleteRoomPolicyCacheEventSubscriber(
	logger *logrus.Logger,
	memoryCache *cache.TTLMap,
) cache.EventSubscriber[event.DeleteRoomPolicyCacheEvent] {
	return &DeleteRoomPolicyCacheEventSubscriber{
		logger:      logger,
		memoryCache: memoryCache,
	}
}

func (s DeleteRoomPolicyCacheEventSubscriber) OnEvent(_ context.Context, evt event.DeleteRoomPolicyCacheEvent) error {
	s.logger.WithField("room_id", evt.RoomID).Debug("invalidating room policy cache")
	s.memoryCache.Delete(evt.RoomID)
	return nil
}
