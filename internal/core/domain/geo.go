package domain

import "math"

// GeoPoint represents a geographic coordinate (WGS 84), latitude first.
// It is the only coordinate form stored or passed around internally.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both components are finite and inside WGS 84 range.
func (p GeoPoint) Valid() bool {
	if !finite(p.Lat) || !finite(p.Lon) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// LonLat is the longitude-first pair used on the routing provider's wire.
type LonLat [2]float64

// LonLat converts p to the provider's longitude-first form.
func (p GeoPoint) LonLat() LonLat {
	return LonLat{p.Lon, p.Lat}
}

// FromLonLat converts a longitude-first pair back to a GeoPoint.
func FromLonLat(ll LonLat) GeoPoint {
	return GeoPoint{Lat: ll[1], Lon: ll[0]}
}

// GeoLineString represents an ordered sequence of geographic coordinates.
type GeoLineString struct {
	Coordinates []GeoPoint `json:"coordinates"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// SouthWest returns the lower-left corner.
func (b Bounds) SouthWest() GeoPoint { return GeoPoint{Lat: b.MinLat, Lon: b.MinLon} }

// NorthEast returns the upper-right corner.
func (b Bounds) NorthEast() GeoPoint { return GeoPoint{Lat: b.MaxLat, Lon: b.MaxLon} }

// Padding is a visual margin in pixels applied around fitted bounds.
type Padding struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// DefaultPadding is used when framing a route on the listing detail map.
var DefaultPadding = Padding{Top: 50, Right: 50, Bottom: 50, Left: 50}

// Viewport is what a map widget is told to show.
type Viewport struct {
	Bounds  Bounds  `json:"bounds"`
	Padding Padding `json:"padding"`
}

// Map defaults used when no better center is known.
var (
	DefaultMapCenter       = GeoPoint{Lat: 19.9975, Lon: 73.7898}
	DefaultListingLocation = GeoPoint{Lat: 20.0470, Lon: 73.8520}
	DefaultOwnerMapCenter  = GeoPoint{Lat: 20.0, Lon: 73.78}
)

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
