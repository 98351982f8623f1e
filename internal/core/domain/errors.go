package domain

import (
	"errors"
	"fmt"
)

// Geolocation failures.
var (
	ErrUnsupported         = errors.New("geolocation unsupported")
	ErrPermissionDenied    = errors.New("geolocation permission denied")
	ErrPositionUnavailable = errors.New("geolocation position unavailable")
	ErrTimeout             = errors.New("geolocation timeout")
)

// Routing failures.
var (
	ErrMissingCredential = errors.New("routing provider key is not configured")
	ErrTransport         = errors.New("routing provider transport error")
	ErrInvalidResponse   = errors.New("routing provider returned an invalid response")
	ErrNoRouteFound      = errors.New("no route found")
)

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrListingNotFound   = errors.New("listing not found")
	ErrUserNotFound      = errors.New("user not found")
)

// TransportError carries the provider's HTTP status. Status is 0 when the
// request never got a response.
type TransportError struct {
	Status     int
	StatusText string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("routing provider unreachable: %v", e.Err)
	}
	return fmt.Sprintf("routing provider responded %d %s", e.Status, e.StatusText)
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func (e *TransportError) Unwrap() error { return e.Err }

// ReasonCode maps an engine error to the stable code surfaced to clients.
func ReasonCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrPositionUnavailable):
		return "position_unavailable"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, ErrTransport):
		return "transport_error"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, ErrNoRouteFound):
		return "no_route_found"
	case errors.Is(err, ErrInvalidCoordinate):
		return "invalid_coordinate"
	default:
		return "internal_error"
	}
}
