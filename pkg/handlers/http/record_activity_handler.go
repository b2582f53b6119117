package http

import (
	appTrust "github.com/NeuralTrust/TrustMod/pkg/app/trust"
	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
	"github.com/NeuralTrust/TrustMod/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type recordActivityHandler struct {
	logger *logrus.Logger
	engine appTrust.Engine
}

func NewRecordActivityHandler(logger *logrus.Logger, engine appTrust.Engine) Handler {
	return &recordActivityHandler{
		logger: logger,
		engine: engine,
	}
}

// Handle @Summary Record an activity event for an actor
// @Tags Trust
// @Accept json
// @Produce json
// @Param request body request.RecordActivityRequest true "Activity kind"
// @Success 200 {object} trust.ActivityCounts
// @Router /api/v1/trust/{context_id}/{actor_id}/activity [post]
func (h *recordActivityHandler) Handle(c *fiber.Ctx) error {
	contextID, actorID := c.Params("context_id"), c.Params("actor_id")
	if contextID == "" || actorID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "context_id and actor_id are required")
	}
	var req request.RecordActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	counts, err := h.engine.RecordActivity(c.Context(), actorID, contextID, trust.ActivityKind(req.Kind))
	if err != nil {
		h.logger.WithError(err).WithField("actor_id", actorID).Error("failed to record activity")
		return errorResponse(c, fiber.StatusInternalServerError, "failed to record activity")
	}
	return c.Status(fiber.StatusOK).JSON(counts)
}
