package geolocation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samirrijal/agroshare/internal/core/domain"
)

// Reported is a position sample taken by the browser and sent along with
// the request. It implements ports.PositionSource.
type Reported struct {
	fix       *domain.GeoPoint
	err       error
	supported bool
}

// Fix builds a source that reports a successful sample.
func Fix(p domain.GeoPoint) *Reported {
	return &Reported{fix: &p, supported: true}
}

// Failed builds a source that reports the given geolocation failure.
// domain.ErrUnsupported yields a source without capability.
func Failed(err error) *Reported {
	return &Reported{err: err, supported: err != domain.ErrUnsupported}
}

// Supported reports whether the browser had a location capability.
func (r *Reported) Supported() bool { return r != nil && r.supported }

// GetCurrentPosition delivers the sample. Out-of-range or non-finite fixes
// are reported as domain.ErrPositionUnavailable.
func (r *Reported) GetCurrentPosition(success func(domain.GeoPoint), failure func(error)) {
	switch {
	case r.err != nil:
		failure(r.err)
	case r.fix == nil || !r.fix.Valid():
		failure(domain.ErrPositionUnavailable)
	default:
		success(*r.fix)
	}
}

// ParseErrorCode maps a browser geolocation error to the domain taxonomy.
// Both names and W3C numeric codes are accepted.
func ParseErrorCode(code string) (error, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "1", "permission_denied":
		return domain.ErrPermissionDenied, nil
	case "2", "position_unavailable":
		return domain.ErrPositionUnavailable, nil
	case "3", "timeout":
		return domain.ErrTimeout, nil
	case "unsupported":
		return domain.ErrUnsupported, nil
	}
	return nil, fmt.Errorf("unknown geolocation error code %q", code)
}

// FromParams builds a source from request parameters: either lat/lon, or
// a geo_error code. No parameters at all means the browser had no
// geolocation capability.
func FromParams(lat, lon, geoError string) (*Reported, error) {
	if geoError != "" || (lat == "" && lon == "") {
		return FromSample(nil, nil, geoError)
	}

	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("lat: %w", err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, fmt.Errorf("lon: %w", err)
	}
	return FromSample(&la, &lo, "")
}

// FromSample is FromParams for already-decoded values, e.g. a WebSocket
// message. A nil coordinate with no error code means no capability.
func FromSample(lat, lon *float64, geoError string) (*Reported, error) {
	if geoError != "" {
		gerr, err := ParseErrorCode(geoError)
		if err != nil {
			return nil, err
		}
		return Failed(gerr), nil
	}
	if lat == nil || lon == nil {
		return Failed(domain.ErrUnsupported), nil
	}
	p := domain.GeoPoint{Lat: *lat, Lon: *lon}
	if !p.Valid() {
		return nil, domain.ErrInvalidCoordinate
	}
	return Fix(p), nil
}
