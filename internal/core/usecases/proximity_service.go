package usecases

import (
	"context"
	"errors"

	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/ports"
	"github.com/samirrijal/agroshare/internal/pkg/geospatial"
	"github.com/samirrijal/agroshare/internal/pkg/logging"
	"github.com/samirrijal/agroshare/internal/pkg/metrics"
)

// ProximityService drives the listing detail map: locate the renter, route
// to the listing, format the distance and frame the viewport.
type ProximityService struct {
	listings *ListingService
	routes   *RouteService
	fitter   *ViewportFitter
}

// NewProximityService creates a new ProximityService.
func NewProximityService(listings *ListingService, routes *RouteService, fitter *ViewportFitter) *ProximityService {
	return &ProximityService{listings: listings, routes: routes, fitter: fitter}
}

// Compute builds the proximity view for one listing from one position
// sample. Geolocation and routing failures never surface as errors; they
// degrade the view to the "unavailable" state. Only a missing listing or a
// cancelled context is returned as an error.
func (s *ProximityService) Compute(ctx context.Context, listingID string, source ports.PositionSource) (*domain.ProximityView, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	dest := listing.Position()

	view := &domain.ProximityView{
		ListingID:     listing.ID,
		Status:        domain.ProximityUnavailable,
		DistanceLabel: geospatial.CalculatingLabel,
		Destination:   dest,
		Center:        domain.DefaultMapCenter,
	}

	origin, err := NewGeolocationAcquirer(source).Acquire(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		reason := domain.ReasonCode(err)
		metrics.GeolocationFailures.WithLabelValues(reason).Inc()
		logging.FromContext(ctx).Info("renter position unavailable", "listing_id", listing.ID, "reason", reason)
		view.Reason = reason
		return view, nil
	}
	view.Origin = &origin
	view.Center = origin
	straight := geospatial.Haversine(origin.Lat, origin.Lon, dest.Lat, dest.Lon)
	view.StraightLineMeters = &straight

	route, err := s.routes.ResolveForListing(ctx, listing.ID, origin, dest)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		view.Reason = domain.ReasonCode(err)
		return view, nil
	}

	view.Route = route
	view.DistanceLabel = geospatial.FormatDistance(route.DistanceMeters)
	if route.DistanceMeters != nil {
		view.Status = domain.ProximityKnown
	} else {
		view.Status = domain.ProximityUnknownDistance
	}

	rec := &ViewportRecorder{}
	s.fitter.Fit(rec, RoutePoints(route, origin, dest), domain.DefaultPadding)
	view.Viewport = rec.Viewport()
	return view, nil
}
