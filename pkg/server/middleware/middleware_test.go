package middleware_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/TrustMod/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, mws ...middleware.Middleware) *fiber.App {
	t.Helper()
	app := fiber.New()
	transport := middleware.NewTransport(mws...)
	app.Use(transport.GetMiddlewares()...)
	app.Get("/ok", func(c *fiber.Ctx) error {
		claims, _ := c.Locals(middleware.ClaimsKey).(*jwt.Claims)
		if claims != nil {
			return c.SendString(claims.Subject)
		}
		return c.SendString("ok")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})
	return app
}

func TestAdminAuthMiddleware(t *testing.T) {
	logger, _ := test.NewNullLogger()
	manager := jwt.NewJwtManager("secret")
	app := newApp(t, middleware.NewAdminAuthMiddleware(logger, manager))

	token, err := manager.CreateToken("ops", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"empty token", "Bearer ", fiber.StatusUnauthorized},
		{"bad token", "Bearer nope", fiber.StatusUnauthorized},
		{"valid", "Bearer " + token, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ok", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestPanicRecoverMiddleware(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := newApp(t, middleware.NewPanicRecoverMiddleware(logger), middleware.NewMetricsMiddleware())

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "HTTP server panic recovered", hook.LastEntry().Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWebsocketMiddleware_RequiresUpgrade(t *testing.T) {
	logger, _ := test.NewNullLogger()
	app := newApp(t, middleware.NewWebsocketMiddleware(logger))

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
