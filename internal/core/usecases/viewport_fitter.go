package usecases

import (
	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/ports"
	"github.com/samirrijal/agroshare/internal/pkg/geospatial"
)

// ViewportFitter frames a map around a set of points.
type ViewportFitter struct{}

// NewViewportFitter creates a new ViewportFitter.
func NewViewportFitter() *ViewportFitter {
	return &ViewportFitter{}
}

// Fit tells m to show every point with the given padding. An empty point
// set leaves the map untouched and returns false.
func (f *ViewportFitter) Fit(m ports.MapHandle, points []domain.GeoPoint, padding domain.Padding) bool {
	bounds, ok := geospatial.BoundsOf(points)
	if !ok || m == nil {
		return false
	}
	m.FitBounds(bounds, padding)
	return true
}

// RoutePoints is the set a route view must keep visible: the whole path
// plus both endpoints.
func RoutePoints(route *domain.Route, origin, destination domain.GeoPoint) []domain.GeoPoint {
	var path []domain.GeoPoint
	if route != nil {
		path = route.Path
	}
	points := make([]domain.GeoPoint, 0, len(path)+2)
	points = append(points, path...)
	return append(points, origin, destination)
}

// ViewportRecorder is a MapHandle that keeps the last viewport it was
// asked to show, so it can be sent to the browser's map widget.
type ViewportRecorder struct {
	last *domain.Viewport
	fits int
}

// FitBounds records the requested viewport, replacing any earlier one.
func (r *ViewportRecorder) FitBounds(bounds domain.Bounds, padding domain.Padding) {
	r.last = &domain.Viewport{Bounds: bounds, Padding: padding}
	r.fits++
}

// Viewport returns the most recent viewport, or nil if none was fitted.
func (r *ViewportRecorder) Viewport() *domain.Viewport { return r.last }

// Fits returns how many times FitBounds was called.
func (r *ViewportRecorder) Fits() int { return r.fits }
