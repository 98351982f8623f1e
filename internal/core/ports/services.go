package ports

import (
	"context"

	"github.com/samirrijal/agroshare/internal/core/domain"
)

// RouteProvider resolves a driving route between two points.
type RouteProvider interface {
	Directions(ctx context.Context, origin, destination domain.GeoPoint) (*domain.Route, error)
}

// PositionSource is a one-shot location service. Exactly one of success or
// failure is expected per GetCurrentPosition call, but callers must not
// rely on it.
type PositionSource interface {
	Supported() bool
	GetCurrentPosition(success func(domain.GeoPoint), failure func(error))
}

// MapHandle is the rendered map widget.
type MapHandle interface {
	FitBounds(bounds domain.Bounds, padding domain.Padding)
}

// RouteEvent is published after every route resolution attempt.
type RouteEvent struct {
	EventID        string          `json:"event_id"`
	ListingID      string          `json:"listing_id,omitempty"`
	Outcome        string          `json:"outcome"`
	Reason         string          `json:"reason,omitempty"`
	Origin         domain.GeoPoint `json:"origin"`
	Destination    domain.GeoPoint `json:"destination"`
	DistanceMeters *float64        `json:"distance_meters,omitempty"`
	Points         int             `json:"points"`
	At             int64           `json:"at"`
	// Retry marks events produced by a background retry. Consumers that
	// schedule retries must ignore them.
	Retry          bool            `json:"retry,omitempty"`
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRouteEvent(ctx context.Context, event *RouteEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeRouteEvents(ctx context.Context, handler func(ctx context.Context, event *RouteEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
