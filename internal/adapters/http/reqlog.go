package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/agroshare/internal/pkg/logging"
)

// RequestIDLogMiddleware copies the Fiber request ID into the user context
// as a request-scoped logger. Usecases log through logging.FromContext, so
// their lines carry the same request_id as the access log.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, ok := c.Locals("requestid").(string)
		if !ok || rid == "" {
			return c.Next()
		}
		c.SetUserContext(logging.WithRequestID(c.UserContext(), rid))
		return c.Next()
	}
}
