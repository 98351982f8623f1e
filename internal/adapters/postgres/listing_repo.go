package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/agroshare/internal/core/domain"
)

const listingColumns = `id, owner_id, name, COALESCE(category, ''), COALESCE(description, ''),
	price_per_hour, COALESCE(price_unit, 'hour'), COALESCE(image_url, ''), COALESCE(rating, 0),
	lat, lng, created_at`

// ListingRepo implements ports.ListingRepository.
type ListingRepo struct {
	db *DB
}

func NewListingRepo(db *DB) *ListingRepo {
	return &ListingRepo{db: db}
}

func (r *ListingRepo) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	l, err := scanListing(r.db.Pool.QueryRow(ctx, `
		SELECT `+listingColumns+`
		FROM listings WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get listing %s: %w", id, err)
	}
	return l, nil
}

func (r *ListingRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+listingColumns+`
		FROM listings WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectListings(rows)
}

// ListWithin returns listings whose coordinates fall inside box.
func (r *ListingRepo) ListWithin(ctx context.Context, box domain.Bounds, limit int) ([]domain.Listing, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE lat BETWEEN $1 AND $2 AND lng BETWEEN $3 AND $4
		LIMIT $5
	`, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon, limit)
	if err != nil {
		return nil, err
	}
	return collectListings(rows)
}

func collectListings(rows pgx.Rows) ([]domain.Listing, error) {
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	var lat, lng *float64
	if err := row.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Category, &l.Description,
		&l.PricePerHour, &l.PriceUnit, &l.ImageURL, &l.Rating,
		&lat, &lng, &l.CreatedAt); err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		l.Location = &domain.GeoPoint{Lat: *lat, Lon: *lng}
	}
	return &l, nil
}
