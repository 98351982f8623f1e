package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/ports"
	"github.com/samirrijal/agroshare/internal/pkg/logging"
	"github.com/samirrijal/agroshare/internal/pkg/metrics"
)

// RouteService resolves driving routes through the configured provider.
type RouteService struct {
	provider  ports.RouteProvider
	publisher ports.EventPublisher
	retry     bool
}

// NewRouteService creates a new RouteService. publisher may be nil.
func NewRouteService(provider ports.RouteProvider, publisher ports.EventPublisher) *RouteService {
	return &RouteService{provider: provider, publisher: publisher}
}

// NewRetryRouteService creates a RouteService for background retries. Its
// events carry Retry and a "retry-" event id, so they never schedule
// another retry.
func NewRetryRouteService(provider ports.RouteProvider, publisher ports.EventPublisher) *RouteService {
	return &RouteService{provider: provider, publisher: publisher, retry: true}
}

// Resolve returns the driving route from origin to destination.
func (s *RouteService) Resolve(ctx context.Context, origin, destination domain.GeoPoint) (*domain.Route, error) {
	return s.ResolveForListing(ctx, "", origin, destination)
}

// ResolveForListing is Resolve with the listing recorded on the route event.
func (s *RouteService) ResolveForListing(ctx context.Context, listingID string, origin, destination domain.GeoPoint) (*domain.Route, error) {
	if !origin.Valid() || !destination.Valid() {
		return nil, domain.ErrInvalidCoordinate
	}

	start := time.Now()
	route, err := s.provider.Directions(ctx, origin, destination)
	metrics.RouteProviderDuration.Observe(time.Since(start).Seconds())

	event := &ports.RouteEvent{
		EventID:     uuid.NewString(),
		ListingID:   listingID,
		Origin:      origin,
		Destination: destination,
		At:          time.Now().Unix(),
		Retry:       s.retry,
	}
	if s.retry {
		event.EventID = "retry-" + event.EventID
	}
	if err != nil {
		reason := domain.ReasonCode(err)
		metrics.RouteResolutions.WithLabelValues(reason).Inc()
		logging.FromContext(ctx).Warn("route resolution failed",
			"listing_id", listingID, "reason", reason, "error", err)
		event.Outcome = "failed"
		event.Reason = reason
		s.publish(ctx, event)
		return nil, err
	}

	metrics.RouteResolutions.WithLabelValues("resolved").Inc()
	event.Outcome = "resolved"
	event.DistanceMeters = route.DistanceMeters
	event.Points = len(route.Path)
	s.publish(ctx, event)
	return route, nil
}

func (s *RouteService) publish(ctx context.Context, event *ports.RouteEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRouteEvent(ctx, event); err != nil {
		logging.FromContext(ctx).Debug("route event not published", "error", err)
	}
}
