package geospatial

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const earthRadiusMeters = 6371008.8

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(lat, lon))
	rect = rect.ExpandedByDistance(s1.Angle(radiusMeters / earthRadiusMeters))
	return rect.Lo().Lat.Degrees(), rect.Lo().Lng.Degrees(), rect.Hi().Lat.Degrees(), rect.Hi().Lng.Degrees()
}
