package middleware

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type websocketMiddleware struct {
	logger *logrus.Logger
}

// NewWebsocketMiddleware rejects plain HTTP requests on websocket routes.
func NewWebsocketMiddleware(logger *logrus.Logger) Middleware {
	return &websocketMiddleware{logger: logger}
}

func (m *websocketMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			m.logger.WithField("path", c.Path()).Debug("websocket upgrade required")
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}
}
