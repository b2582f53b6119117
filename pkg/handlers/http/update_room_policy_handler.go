package http

import (
	"errors"

	"github.com/NeuralTrust/TrustMod/pkg/app/room"
	"github.com/NeuralTrust/TrustMod/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type updateRoomPolicyHandler struct {
	logger  *logrus.Logger
	updater room.PolicyUpdater
}

func NewUpdateRoomPolicyHandler(logger *logrus.Logger, updater room.PolicyUpdater) Handler {
	return &updateRoomPolicyHandler{
		logger:  logger,
		updater: updater,
	}
}

// Handle @Summary Create or replace the moderation policy of a room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param request body request.UpdateRoomPolicyRequest true "Room policy"
// @Success 200 {object} moderation.RoomPolicy
// @Router /api/v1/rooms/{room_id}/policy [put]
func (h *updateRoomPolicyHandler) Handle(c *fiber.Ctx) error {
	roomID := c.Params("room_id")
	if roomID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "room_id is required")
	}
	var req request.UpdateRoomPolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	policy := req.ToPolicy(roomID)
	if err := h.updater.Update(c.Context(), policy); err != nil {
		if errors.Is(err, room.ErrInvalidPolicy) {
			return errorResponse(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.WithError(err).WithField("room_id", roomID).Error("failed to update room policy")
		return errorResponse(c, fiber.StatusInternalServerError, "failed to update room policy")
	}
	return c.Status(fiber.StatusOK).JSON(policy)
}
