package http

import (
	"github.com/NeuralTrust/TrustMod/pkg/app/analysis"
	"github.com/NeuralTrust/TrustMod/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listProvidersHandler struct {
	logger  *logrus.Logger
	gateway analysis.Gateway
}

func NewListProvidersHandler(logger *logrus.Logger, gateway analysis.Gateway) Handler {
	return &listProvidersHandler{
		logger:  logger,
		gateway: gateway,
	}
}

// Handle @Summary List analysis providers with rolling statistics and breaker state
// @Tags Providers
// @Produce json
// @Success 200 {array} response.ProviderOutput
// @Router /api/v1/providers [get]
func (h *listProvidersHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(response.NewProviderOutputs(h.gateway.Stats()))
}
