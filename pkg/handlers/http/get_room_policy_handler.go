package http

import (
	"github.com/NeuralTrust/TrustMod/pkg/app/room"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getRoomPolicyHandler struct {
	logger *logrus.Logger
	finder room.PolicyFinder
}

func NewGetRoomPolicyHandler(logger *logrus.Logger, finder room.PolicyFinder) Handler {
	return &getRoomPolicyHandler{
		logger: logger,
		finder: finder,
	}
}

// Handle @Summary Get the moderation policy of a room
// @Tags Rooms
// @Produce json
// @Success 200 {object} moderation.RoomPolicy
// @Router /api/v1/rooms/{room_id}/policy [get]
func (h *getRoomPolicyHandler) Handle(c *fiber.Ctx) error {
	roomID := c.Params("room_id")
	if roomID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "room_id is required")
	}
	policy, err := h.finder.Find(c.Context(), roomID)
	if err != nil {
		h.logger.WithError(err).WithField("room_id", roomID).Error("failed to get room policy")
		return errorResponse(c, fiber.StatusInternalServerError, "failed to get room policy")
	}
	return c.Status(fiber.StatusOK).JSON(policy)
}
