package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Handlers that set their own header win.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if len(c.Response().Header.Peek(fiber.HeaderCacheControl)) > 0 {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		// Position dependent or synthesized per request.
		case strings.HasSuffix(path, "/proximity"),
			strings.HasSuffix(path, "/reviews"),
			strings.HasSuffix(path, "/trips"),
			path == "/v1/routes":
			ttl = "no-store"

		case path == "/v1/listings/nearby":
			ttl = "public, max-age=60"

		case strings.HasPrefix(path, "/v1/listings/"), strings.HasPrefix(path, "/v1/owners/"):
			ttl = "public, max-age=300"

		case path == "/v1/config/maps":
			ttl = "public, max-age=3600"

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=60"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
