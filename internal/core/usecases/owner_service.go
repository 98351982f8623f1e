package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/ports"
	"github.com/samirrijal/agroshare/internal/pkg/metrics"
)

const demoOwnerPrefix = "demo-owner-"

// IsDemoOwner reports whether ownerID belongs to the showcase listings on
// the home page, which have no backing rows.
func IsDemoOwner(ownerID string) bool {
	return strings.HasPrefix(ownerID, demoOwnerPrefix)
}

// OwnerService builds public owner profiles.
type OwnerService struct {
	users    ports.UserRepository
	listings ports.ListingRepository
	cache    ports.CacheService
}

// NewOwnerService creates a new OwnerService.
func NewOwnerService(users ports.UserRepository, listings ports.ListingRepository, cache ports.CacheService) *OwnerService {
	return &OwnerService{users: users, listings: listings, cache: cache}
}

// Profile returns the owner and their listings. The map is centered on the
// first listing with coordinates.
func (s *OwnerService) Profile(ctx context.Context, ownerID string) (*domain.OwnerProfile, error) {
	if IsDemoOwner(ownerID) {
		return demoProfile(ownerID), nil
	}

	cacheKey := "owners:profile:" + ownerID
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var p domain.OwnerProfile
			if err := json.Unmarshal(data, &p); err == nil {
				metrics.CacheHits.WithLabelValues("owner_profile").Inc()
				return &p, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("owner_profile").Inc()
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, domain.ErrUserNotFound
	}

	listings, err := s.listings.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list listings for owner %s: %w", ownerID, err)
	}
	if listings == nil {
		listings = []domain.Listing{}
	}

	p := &domain.OwnerProfile{Owner: *owner, Listings: listings, MapCenter: domain.DefaultOwnerMapCenter}
	for _, l := range listings {
		if l.Location != nil && l.Location.Valid() {
			p.MapCenter = *l.Location
			break
		}
	}

	if s.cache != nil {
		if data, err := json.Marshal(p); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}
	return p, nil
}

func demoProfile(ownerID string) *domain.OwnerProfile {
	loc := domain.DefaultOwnerMapCenter
	return &domain.OwnerProfile{
		Owner: domain.User{
			ID:        ownerID,
			FullName:  "Review Owner (Demo)",
			AvatarURL: "https://i.pravatar.cc/150?img=12",
			Email:     "demo.owner@agroshare.com",
		},
		Listings: []domain.Listing{{
			ID:           "999",
			OwnerID:      ownerID,
			Name:         "Demo Tractor",
			Category:     "Tractor",
			PricePerHour: 1200,
			PriceUnit:    "hour",
			ImageURL:     "https://images.unsplash.com/photo-1592878931055-63657cd30089?auto=format&fit=crop&q=80&w=1000",
			Rating:       4.8,
			Location:     &loc,
		}},
		MapCenter: loc,
		Demo:      true,
	}
}
