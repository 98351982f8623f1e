package ports

import (
	"context"

	"github.com/samirrijal/agroshare/internal/core/domain"
)

// ListingRepository reads listings.
type ListingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error)
	ListWithin(ctx context.Context, box domain.Bounds, limit int) ([]domain.Listing, error)
}

// UserRepository reads user profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// RentalRequestRepository reads rental requests joined with their listing.
type RentalRequestRepository interface {
	// ListByRequester returns every request made by requesterID, oldest
	// first. Requests whose listing no longer exists are still returned,
	// with an empty ListingOwnerID.
	ListByRequester(ctx context.Context, requesterID string) ([]domain.TripRecord, error)
}
