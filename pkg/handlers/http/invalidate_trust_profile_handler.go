package http

import (
	appTrust "github.com/NeuralTrust/TrustMod/pkg/app/trust"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache/event"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type invalidateTrustProfileHandler struct {
	logger    *logrus.Logger
	engine    appTrust.Engine
	publisher cache.EventPublisher
}

// NewInvalidateTrustProfileHandler drops the local cached profile and tells the other
// instances to do the same.
func NewInvalidateTrustProfileHandler(
	logger *logrus.Logger,
	engine appTrust.Engine,
	publisher cache.EventPublisher,
) Handler {
	return &invalidateTrustProfileHandler{
		logger:    logger,
		engine:    engine,
		publisher: publisher,
	}
}

// Handle @Summary Invalidate a cached trust profile
// @Tags Trust
// @Success 204
// @Router /api/v1/trust/{context_id}/{actor_id} [delete]
func (h *invalidateTrustProfileHandler) Handle(c *fiber.Ctx) error {
	contextID, actorID := c.Params("context_id"), c.Params("actor_id")
	if contextID == "" || actorID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "context_id and actor_id are required")
	}
	if err := h.engine.Invalidate(c.Context(), actorID, contextID); err != nil {
		h.logger.WithError(err).WithField("actor_id", actorID).Error("failed to invalidate trust profile")
		return errorResponse(c, fiber.StatusInternalServerError, "failed to invalidate trust profile")
	}
	ev := event.DeleteTrustProfileCacheEvent{ActorID: actorID, ContextID: contextID}
	if err := h.publisher.Publish(c.Context(), ev); err != nil {
		h.logger.WithError(err).Warn("failed to publish trust profile invalidation")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
