package http

import (
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const maxAuditListLimit = 500

type listAuditsHandler struct {
	logger *logrus.Logger
	repo   moderation.AuditRepository
}

func NewListAuditsHandler(logger *logrus.Logger, repo moderation.AuditRepository) Handler {
	return &listAuditsHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary List audit records for an actor, newest first
// @Tags Moderation
// @Produce json
// @Param actor_id path string true "Actor ID"
// @Param limit query int false "Maximum number of records"
// @Success 200 {array} moderation.AuditRecord
// @Router /api/v1/audits/{actor_id} [get]
func (h *listAuditsHandler) Handle(c *fiber.Ctx) error {
	actorID := c.Params("actor_id")
	if actorID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "actor_id is required")
	}
	limit := c.QueryInt("limit", repository.DefaultAuditListLimit)
	if limit <= 0 || limit > maxAuditListLimit {
		return errorResponse(c, fiber.StatusBadRequest, "limit must be between 1 and 500")
	}

	records, err := h.repo.ListByActor(c.Context(), actorID, limit)
	if err != nil {
		h.logger.WithError(err).WithField("actor_id", actorID).Error("failed to list audit records")
		return errorResponse(c, fiber.StatusInternalServerError, "failed to list audit records")
	}
	if records == nil {
		records = []moderation.AuditRecord{}
	}
	return c.Status(fiber.StatusOK).JSON(records)
}
