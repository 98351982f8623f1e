package geospatial

import (
	"fmt"
	"math"
)

// CalculatingLabel is shown while no on-road distance is known.
const CalculatingLabel = "Calculating on-road distance..."

// FormatKm renders meters as a one-decimal kilometer badge, e.g. "8.4 km".
func FormatKm(meters float64) string {
	km := meters / 1000
	// Avoid "-0.0 km" for tiny negative noise.
	if math.Abs(km) < 0.05 {
		km = 0
	}
	return fmt.Sprintf("%.1f km", km)
}

// FormatDistance renders a provider distance for the listing detail page,
// e.g. 8400 -> "8.4 km away". A nil distance yields CalculatingLabel.
func FormatDistance(meters *float64) string {
	if meters == nil {
		return CalculatingLabel
	}
	return FormatKm(*meters) + " away"
}
