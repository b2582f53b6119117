package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	GetVersionHandler Handler

	// Moderation
	ModerateHandler   Handler
	ListAuditsHandler Handler

	// Trust
	GetTrustProfileHandler        Handler
	RecordActivityHandler         Handler
	InvalidateTrustProfileHandler Handler

	// Rooms
	GetRoomPolicyHandler    Handler
	UpdateRoomPolicyHandler Handler
	ResetRateLimitHandler   Handler

	// Providers
	ListProvidersHandler  Handler
	UpdateProviderHandler Handler
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
