package postgres

import (
	"context"

	"github.com/samirrijal/agroshare/internal/core/domain"
)

// RentalRequestRepo implements ports.RentalRequestRepository.
type RentalRequestRepo struct {
	db *DB
}

func NewRentalRequestRepo(db *DB) *RentalRequestRepo {
	return &RentalRequestRepo{db: db}
}

func (r *RentalRequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]domain.TripRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT rr.id, rr.requester_id, rr.listing_id,
		       COALESCE(l.owner_id, ''), COALESCE(l.name, ''),
		       rr.status, COALESCE(rr.total_price, 0), rr.created_at
		FROM rental_requests rr
		LEFT JOIN listings l ON l.id = rr.listing_id
		WHERE rr.requester_id = $1
		ORDER BY rr.created_at
	`, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.TripRecord
	for rows.Next() {
		var t domain.TripRecord
		if err := rows.Scan(&t.ID, &t.RequesterID, &t.ListingID, &t.ListingOwnerID, &t.ListingName,
			&t.Status, &t.TotalPrice, &t.CreatedAt); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}
