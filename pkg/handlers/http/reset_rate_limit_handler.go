package http

import (
	"github.com/NeuralTrust/TrustMod/pkg/infra/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type resetRateLimitHandler struct {
	logger  *logrus.Logger
	limiter ratelimit.Limiter
}

func NewResetRateLimitHandler(logger *logrus.Logger, limiter ratelimit.Limiter) Handler {
	return &resetRateLimitHandler{
		logger:  logger,
		limiter: limiter,
	}
}

// Handle @Summary Clear an actor's message rate limit window in a room
// @Tags Rooms
// @Param room_id path string true "Room ID"
// @Param actor_id path string true "Actor ID"
// @Success 204
// @Router /api/v1/rooms/{room_id}/ratelimit/{actor_id} [delete]
func (h *resetRateLimitHandler) Handle(c *fiber.Ctx) error {
	roomID, actorID := c.Params("room_id"), c.Params("actor_id")
	if roomID == "" || actorID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "room_id and actor_id are required")
	}
	if err := h.limiter.Reset(c.Context(), actorID, roomID); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"actor_id": actorID,
			"room_id":  roomID,
		}).Error("failed to reset rate limit")
		return errorResponse(c, fiber.StatusInternalServerError, "failed to reset rate limit")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
