package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	app.Get("/api/v1/transfers", func(c *fiber.Ctx) error {
		return c.SendString(User(c))
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuth(t *testing.T) {
	app := newApp(Config{ApiKey: "secret", Skip: []string{"/health"}})

	t.Run("Missing Key", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/transfers", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Valid Header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/transfers", nil)
		req.Header.Set(HeaderAPIKey, "secret")
		req.Header.Set(HeaderUser, "alice")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := make([]byte, 5)
		n, _ := resp.Body.Read(body)
		assert.Equal(t, "alice", string(body[:n]))
	})

	t.Run("Bearer Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/transfers", nil)
		req.Header.Set("Authorization", "Bearer secret")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Skipped Path", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Disabled", func(t *testing.T) {
		open := newApp(Config{})
		resp, err := open.Test(httptest.NewRequest("GET", "/api/v1/transfers", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
