package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/samirrijal/agroshare/internal/core/domain"
)

var listingCols = []string{"id", "owner_id", "name", "category", "description", "price_per_hour",
	"price_unit", "image_url", "rating", "lat", "lng", "created_at"}

func f64(v float64) *float64 { return &v }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestListingRepo_GetByID(t *testing.T) {
	mock := newMock(t)
	created := time.Now()
	mock.ExpectQuery(`FROM listings WHERE id = \$1`).
		WithArgs("tractor-1").
		WillReturnRows(pgxmock.NewRows(listingCols).
			AddRow("tractor-1", "seller-1", "Mahindra 575", "Tractor", "", 1200.0, "hour", "", 4.5, f64(20.0), f64(73.78), created))

	l, err := NewListingRepo(Wrap(mock)).GetByID(context.Background(), "tractor-1")
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if l.Location == nil || l.Location.Lat != 20.0 || l.Location.Lon != 73.78 {
		t.Fatalf("unexpected location %v", l.Location)
	}
	if l.OwnerID != "seller-1" || l.PricePerHour != 1200 {
		t.Fatalf("unexpected listing %+v", l)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListingRepo_GetByID_NullCoordinates(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM listings WHERE id = \$1`).
		WithArgs("plough-2").
		WillReturnRows(pgxmock.NewRows(listingCols).
			AddRow("plough-2", "seller-1", "Plough", "Implement", "", 300.0, "hour", "", 0.0, (*float64)(nil), (*float64)(nil), time.Now()))

	l, err := NewListingRepo(Wrap(mock)).GetByID(context.Background(), "plough-2")
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if l.Location != nil {
		t.Fatalf("expected no location, got %v", l.Location)
	}
	if l.Position() != domain.DefaultListingLocation {
		t.Fatalf("expected fallback position, got %v", l.Position())
	}
}

func TestListingRepo_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM listings WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewListingRepo(Wrap(mock)).GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestListingRepo_ListWithin(t *testing.T) {
	mock := newMock(t)
	box := domain.Bounds{MinLat: 19.8, MinLon: 73.5, MaxLat: 20.2, MaxLon: 74.0}
	mock.ExpectQuery(`WHERE lat BETWEEN \$1 AND \$2 AND lng BETWEEN \$3 AND \$4`).
		WithArgs(19.8, 20.2, 73.5, 74.0, 40).
		WillReturnRows(pgxmock.NewRows(listingCols).
			AddRow("a", "s1", "A", "Tractor", "", 100.0, "hour", "", 4.0, f64(20.0), f64(73.8), time.Now()).
			AddRow("b", "s2", "B", "Harvester", "", 900.0, "day", "", 3.5, f64(19.9), f64(73.6), time.Now()))

	listings, err := NewListingRepo(Wrap(mock)).ListWithin(context.Background(), box, 40)
	if err != nil {
		t.Fatalf("list within: %v", err)
	}
	if len(listings) != 2 || listings[1].PriceUnit != "day" {
		t.Fatalf("unexpected listings %+v", listings)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepo_GetByID(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("seller-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "full_name", "avatar_url", "email", "role", "phone", "address"}).
			AddRow("seller-1", "Sunil Patil", "", "sunil@example.com", "owner", "", "Nashik"))

	u, err := NewUserRepo(Wrap(mock)).GetByID(context.Background(), "seller-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.FullName != "Sunil Patil" || u.Address != "Nashik" {
		t.Fatalf("unexpected user %+v", u)
	}

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)
	if _, err := NewUserRepo(Wrap(mock)).GetByID(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRentalRequestRepo_ListByRequester(t *testing.T) {
	mock := newMock(t)
	cols := []string{"id", "requester_id", "listing_id", "owner_id", "name", "status", "total_price", "created_at"}
	mock.ExpectQuery(`LEFT JOIN listings l ON l.id = rr.listing_id`).
		WithArgs("renter-1").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("r1", "renter-1", "tractor-1", "seller-1", "Mahindra 575", "completed", 2400.0, time.Now()).
			AddRow("r2", "renter-1", "deleted", "", "", "pending", 0.0, time.Now()))

	trips, err := NewRentalRequestRepo(Wrap(mock)).ListByRequester(context.Background(), "renter-1")
	if err != nil {
		t.Fatalf("list requests: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(trips))
	}
	if trips[0].ListingOwnerID != "seller-1" || trips[1].ListingOwnerID != "" {
		t.Fatalf("unexpected owners %q, %q", trips[0].ListingOwnerID, trips[1].ListingOwnerID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDB_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()
	mock.ExpectPing()

	db := Wrap(mock)
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	db.RecordPoolMetrics()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
