package usecases

import (
	"context"
	"sync"

	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/ports"
)

// GeolocationAcquirer turns a callback-style position source into a single
// blocking result.
type GeolocationAcquirer struct {
	source ports.PositionSource
}

// NewGeolocationAcquirer creates a new GeolocationAcquirer. A nil source
// behaves like an environment without location capability.
func NewGeolocationAcquirer(source ports.PositionSource) *GeolocationAcquirer {
	return &GeolocationAcquirer{source: source}
}

type positionResult struct {
	point domain.GeoPoint
	err   error
}

// Acquire issues exactly one position request and waits for its outcome.
// Extra callbacks from a misbehaving source are ignored.
func (a *GeolocationAcquirer) Acquire(ctx context.Context) (domain.GeoPoint, error) {
	if a.source == nil || !a.source.Supported() {
		return domain.GeoPoint{}, domain.ErrUnsupported
	}

	done := make(chan positionResult, 1)
	var once sync.Once
	settle := func(r positionResult) {
		once.Do(func() { done <- r })
	}

	go a.source.GetCurrentPosition(
		func(p domain.GeoPoint) { settle(positionResult{point: p}) },
		func(err error) {
			if err == nil {
				err = domain.ErrPositionUnavailable
			}
			settle(positionResult{err: err})
		},
	)

	select {
	case r := <-done:
		return r.point, r.err
	case <-ctx.Done():
		return domain.GeoPoint{}, ctx.Err()
	}
}
