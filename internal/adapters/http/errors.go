package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, no_route_found, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error. The cause is logged, not returned.
func errInternal(c *fiber.Ctx, err error) error {
	logging.FromContext(c.UserContext()).ErrorContext(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	return newError(c, 500, "internal_error", "internal server error")
}

// errDomain maps engine errors to HTTP responses.
func errDomain(c *fiber.Ctx, err error) error {
	code := domain.ReasonCode(err)
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return newError(c, 400, code, err.Error())
	case errors.Is(err, domain.ErrListingNotFound), errors.Is(err, domain.ErrUserNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrNoRouteFound):
		return newError(c, 404, code, err.Error())
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrInvalidResponse):
		return newError(c, 502, code, err.Error())
	case errors.Is(err, domain.ErrMissingCredential):
		return newError(c, 503, code, err.Error())
	default:
		return errInternal(c, err)
	}
}
