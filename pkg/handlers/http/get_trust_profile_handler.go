package http

import (
	appTrust "github.com/NeuralTrust/TrustMod/pkg/app/trust"
	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getTrustProfileHandler struct {
	logger *logrus.Logger
	engine appTrust.Engine
}

func NewGetTrustProfileHandler(logger *logrus.Logger, engine appTrust.Engine) Handler {
	return &getTrustProfileHandler{
		logger: logger,
		engine: engine,
	}
}

// Handle @Summary Get the trust profile of an actor in a context
// @Tags Trust
// @Produce json
// @Param context_id path string true "Context (room) ID"
// @Param actor_id path string true "Actor ID"
// @Param force query bool false "Recompute instead of using the cache"
// @Success 200 {object} trust.Profile
// @Router /api/v1/trust/{context_id}/{actor_id} [get]
func (h *getTrustProfileHandler) Handle(c *fiber.Ctx) error {
	contextID, actorID := c.Params("context_id"), c.Params("actor_id")
	if contextID == "" || actorID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "context_id and actor_id are required")
	}

	var opts []appTrust.ProfileOption
	if c.QueryBool("force") {
		opts = append(opts, appTrust.WithForceRecalculation())
	}

	profile, err := h.engine.GetProfile(c.Context(), actorID, contextID, trust.ActivityData{}, opts...)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"actor_id":   actorID,
			"context_id": contextID,
		}).Error("failed to get trust profile")
		return errorResponse(c, fiber.StatusInternalServerError, "failed to get trust profile")
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}
