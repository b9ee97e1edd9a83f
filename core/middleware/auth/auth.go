package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// HeaderAPIKey carries the shared API key.
const HeaderAPIKey = "X-API-Key"

// HeaderUser names the principal the request acts for.
const HeaderUser = "X-User"

// LocalsUser is the Fiber locals key holding the principal.
const LocalsUser = "user"

// Config holds configuration for the auth middleware.
type Config struct {
	// ApiKey is the expected key. Empty disables the check.
	ApiKey string
	// Skip lists path prefixes served without a key.
	Skip []string
}

// New creates the API key middleware. It also records the acting user
// from the X-User header so handlers can stamp it on records.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user := strings.TrimSpace(c.Get(HeaderUser)); user != "" {
			c.Locals(LocalsUser, user)
		}

		if cfg.ApiKey == "" {
			return c.Next()
		}
		path := c.Path()
		for _, prefix := range cfg.Skip {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		key := c.Get(HeaderAPIKey)
		if key == "" {
			key = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
				"code":  "unauthorized",
			})
		}
		return c.Next()
	}
}

// User returns the principal recorded by the middleware, or "" when anonymous.
func User(c *fiber.Ctx) string {
	if user, ok := c.Locals(LocalsUser).(string); ok {
		return user
	}
	return ""
}
