package http

import (
	"errors"

	"github.com/NeuralTrust/TrustMod/pkg/app/analysis"
	"github.com/NeuralTrust/TrustMod/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type updateProviderHandler struct {
	logger  *logrus.Logger
	gateway analysis.Gateway
}

func NewUpdateProviderHandler(logger *logrus.Logger, gateway analysis.Gateway) Handler {
	return &updateProviderHandler{
		logger:  logger,
		gateway: gateway,
	}
}

// Handle @Summary Enable or disable an analysis provider
// @Tags Providers
// @Accept json
// @Param request body request.UpdateProviderRequest true "Provider state"
// @Success 204
// @Router /api/v1/providers/{provider_id} [put]
func (h *updateProviderHandler) Handle(c *fiber.Ctx) error {
	providerID := c.Params("provider_id")
	var req request.UpdateProviderRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.gateway.SetEnabled(providerID, *req.Enabled); err != nil {
		if errors.Is(err, analysis.ErrUnknownProvider) {
			return errorResponse(c, fiber.StatusNotFound, err.Error())
		}
		return errorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	h.logger.WithFields(logrus.Fields{
		"provider": providerID,
		"enabled":  *req.Enabled,
	}).Info("provider state updated")
	return c.SendStatus(fiber.StatusNoContent)
}
