package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/ports"
	"github.com/samirrijal/agroshare/internal/pkg/geospatial"
	"github.com/samirrijal/agroshare/internal/pkg/metrics"
)

// ListingService handles listing lookups.
type ListingService struct {
	listings ports.ListingRepository
	cache    ports.CacheService
}

// NewListingService creates a new ListingService.
func NewListingService(listings ports.ListingRepository, cache ports.CacheService) *ListingService {
	return &ListingService{listings: listings, cache: cache}
}

// GetByID returns a single listing.
func (s *ListingService) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	cacheKey := "listings:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var l domain.Listing
			if err := json.Unmarshal(data, &l); err == nil {
				metrics.CacheHits.WithLabelValues("listing").Inc()
				return &l, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("listing").Inc()
	}

	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrListingNotFound
	}

	if s.cache != nil {
		if data, err := json.Marshal(l); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return l, nil
}

// Nearby returns listings within radiusMeters of the point, closest first,
// each with a straight-line distance badge.
func (s *ListingService) Nearby(ctx context.Context, at domain.GeoPoint, radiusMeters float64, limit int) ([]domain.NearbyListing, error) {
	if !at.Valid() {
		return nil, domain.ErrInvalidCoordinate
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if radiusMeters <= 0 || radiusMeters > 100000 {
		radiusMeters = 25000
	}

	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(at.Lat, at.Lon, radiusMeters)
	candidates, err := s.listings.ListWithin(ctx, domain.Bounds{
		MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon,
	}, limit*4)
	if err != nil {
		return nil, fmt.Errorf("list listings near %.4f,%.4f: %w", at.Lat, at.Lon, err)
	}

	out := make([]domain.NearbyListing, 0, len(candidates))
	for _, l := range candidates {
		if l.Location == nil {
			continue
		}
		d := geospatial.Haversine(at.Lat, at.Lon, l.Location.Lat, l.Location.Lon)
		if d > radiusMeters {
			continue
		}
		out = append(out, domain.NearbyListing{
			Listing:        l,
			DistanceMeters: d,
			DistanceLabel:  geospatial.FormatKm(d),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
