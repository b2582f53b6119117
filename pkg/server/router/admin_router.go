package router

import (
	handlers "github.com/NeuralTrust/TrustMod/pkg/handlers/http"
	wsHandlers "github.com/NeuralTrust/TrustMod/pkg/handlers/websocket"
	"github.com/NeuralTrust/TrustMod/pkg/server/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type AdminRouterDI struct {
	// Global runs on every route, Auth only on /api/v1 and the bridge socket.
	Global           *middleware.Transport
	Auth             *middleware.Transport
	Websocket        middleware.Middleware
	HandlerTransport *handlers.HandlerTransport
	BridgeHandler    wsHandlers.Handler
}

type adminRouter struct {
	di AdminRouterDI
}

func NewAdminRouter(di AdminRouterDI) ServerRouter {
	return &adminRouter{di: di}
}

func (r *adminRouter) BuildRoutes(router *fiber.App) error {
	h := r.di.HandlerTransport
	if h == nil {
		return ErrInvalidHandlerTransport
	}
	if r.di.Global != nil {
		if mws := r.di.Global.GetMiddlewares(); len(mws) > 0 {
			router.Use(mws...)
		}
	}
	var auth []fiber.Handler
	if r.di.Auth != nil {
		auth = r.di.Auth.Handlers()
	}

	router.Get("/version", h.GetVersionHandler.Handle)

	if r.di.BridgeHandler != nil {
		ws := router.Group("/ws", auth...)
		if r.di.Websocket != nil {
			ws.Use(r.di.Websocket.Middleware())
		}
		ws.Get("/bridge", websocket.New(r.di.BridgeHandler.Handle))
	}

	v1 := router.Group("/api/v1", auth...)
	{
		v1.Post("/moderate", h.ModerateHandler.Handle)
		v1.Get("/audits/:actor_id", h.ListAuditsHandler.Handle)

		trust := v1.Group("/trust/:context_id/:actor_id")
		{
			trust.Get("", h.GetTrustProfileHandler.Handle)
			trust.Delete("", h.InvalidateTrustProfileHandler.Handle)
			trust.Post("/activity", h.RecordActivityHandler.Handle)
		}

		rooms := v1.Group("/rooms/:room_id")
		{
			rooms.Get("/policy", h.GetRoomPolicyHandler.Handle)
			rooms.Put("/policy", h.UpdateRoomPolicyHandler.Handle)
			rooms.Delete("/ratelimit/:actor_id", h.ResetRateLimitHandler.Handle)
		}

		providers := v1.Group("/providers")
		{
			providers.Get("", h.ListProvidersHandler.Handle)
			providers.Put("/:provider_id", h.UpdateProviderHandler.Handle)
		}
	}
	return nil
}
