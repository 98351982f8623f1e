package geospatial

import (
	"github.com/golang/geo/r2"

	"github.com/samirrijal/agroshare/internal/core/domain"
)

// BoundsOf returns the minimal box enclosing every point. ok is false for
// an empty set.
func BoundsOf(points []domain.GeoPoint) (b domain.Bounds, ok bool) {
	rect := r2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(r2.Point{X: p.Lon, Y: p.Lat})
	}
	if rect.IsEmpty() {
		return domain.Bounds{}, false
	}
	return domain.Bounds{
		MinLat: rect.Y.Lo,
		MinLon: rect.X.Lo,
		MaxLat: rect.Y.Hi,
		MaxLon: rect.X.Hi,
	}, true
}
