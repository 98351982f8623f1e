package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/ports"
	"github.com/samirrijal/agroshare/internal/pkg/metrics"
)

// CorrelateTrips keeps the trips whose listing belongs to ownerID, in their
// original order. Trips whose listing could not be resolved are dropped.
func CorrelateTrips(trips []domain.TripRecord, ownerID string) []domain.TripRecord {
	out := make([]domain.TripRecord, 0)
	if ownerID == "" {
		return out
	}
	for _, t := range trips {
		if t.ListingOwnerID != "" && t.ListingOwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out
}

// TripService answers "which of my rentals were with this owner".
type TripService struct {
	requests ports.RentalRequestRepository
}

// NewTripService creates a new TripService.
func NewTripService(requests ports.RentalRequestRepository) *TripService {
	return &TripService{requests: requests}
}

// TripsWithOwner returns requesterID's rental requests for listings owned
// by ownerID.
func (s *TripService) TripsWithOwner(ctx context.Context, requesterID, ownerID string) ([]domain.TripRecord, error) {
	if requesterID == "" || IsDemoOwner(ownerID) {
		return []domain.TripRecord{}, nil
	}

	history, err := s.requests.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list requests for %s: %w", requesterID, err)
	}

	trips := CorrelateTrips(history, ownerID)
	metrics.TripsCorrelated.Add(float64(len(trips)))
	for i := range trips {
		trips[i].TotalPriceLabel = FormatINR(trips[i].TotalPrice)
	}
	return trips, nil
}

// FormatINR renders an amount in rupees without fractional digits, using
// Indian digit grouping: 1234567 -> "₹12,34,567".
func FormatINR(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%.0f", amount)

	var b strings.Builder
	if len(digits) > 3 {
		head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
		for i, r := range head {
			if i > 0 && (len(head)-i)%2 == 0 {
				b.WriteByte(',')
			}
			b.WriteRune(r)
		}
		b.WriteByte(',')
		b.WriteString(tail)
	} else {
		b.WriteString(digits)
	}

	if neg {
		return "-₹" + b.String()
	}
	return "₹" + b.String()
}
