package http

import (
	"errors"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/app/pipeline"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/handlers/http/request"
	"github.com/NeuralTrust/TrustMod/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type moderateHandler struct {
	logger   *logrus.Logger
	pipeline pipeline.Pipeline
	clock    func() time.Time
}

func NewModerateHandler(logger *logrus.Logger, p pipeline.Pipeline) Handler {
	return &moderateHandler{
		logger:   logger,
		pipeline: p,
		clock:    time.Now,
	}
}

// Handle @Summary Moderate a content item
// @Tags Moderation
// @Accept json
// @Produce json
// @Param request body request.ModerateRequest true "Content to moderate"
// @Success 200 {object} response.ModerationOutput
// @Failure 400 {object} map[string]interface{}
// @Failure 502 {object} response.ModerationOutput "Decision could not be applied"
// @Router /api/v1/moderate [post]
func (h *moderateHandler) Handle(c *fiber.Ctx) error {
	var req request.ModerateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.pipeline.Process(c.Context(), req.ToPipelineRequest(h.clock()))
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrInvalidContent):
			return errorResponse(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, moderation.ErrActionExecutionFailed) && result != nil:
			return c.Status(fiber.StatusBadGateway).JSON(response.NewModerationOutput(result, err))
		case moderation.IsSystemic(err) || errors.Is(err, moderation.ErrCancelled):
			return errorResponse(c, fiber.StatusServiceUnavailable, err.Error())
		default:
			h.logger.WithError(err).WithField("content_id", req.Content.ID).Error("failed to moderate content")
			return errorResponse(c, fiber.StatusInternalServerError, "failed to moderate content")
		}
	}
	return c.Status(fiber.StatusOK).JSON(response.NewModerationOutput(result, nil))
}
