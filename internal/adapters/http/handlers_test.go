package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/agroshare/internal/adapters/http"
	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/usecases"
)

// ---- Mock repositories ----

type mockListingRepo struct {
	getByIDFn     func(ctx context.Context, id string) (*domain.Listing, error)
	listByOwnerFn func(ctx context.Context, ownerID string) ([]domain.Listing, error)
	listWithinFn  func(ctx context.Context, box domain.Bounds, limit int) ([]domain.Listing, error)
}

func (m *mockListingRepo) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrListingNotFound
}
func (m *mockListingRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}
func (m *mockListingRepo) ListWithin(ctx context.Context, box domain.Bounds, limit int) ([]domain.Listing, error) {
	if m.listWithinFn != nil {
		return m.listWithinFn(ctx, box, limit)
	}
	return nil, nil
}

type mockUserRepo struct {
	getByIDFn func(ctx context.Context, id string) (*domain.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

type mockRequestRepo struct {
	listFn func(ctx context.Context, requesterID string) ([]domain.TripRecord, error)
}

func (m *mockRequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]domain.TripRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, requesterID)
	}
	return nil, nil
}

type mockRouteProvider struct {
	directionsFn func(ctx context.Context, o, d domain.GeoPoint) (*domain.Route, error)
}

func (m *mockRouteProvider) Directions(ctx context.Context, o, d domain.GeoPoint) (*domain.Route, error) {
	if m.directionsFn != nil {
		return m.directionsFn(ctx, o, d)
	}
	return nil, domain.ErrNoRouteFound
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

type fixtures struct {
	listings *mockListingRepo
	users    *mockUserRepo
	requests *mockRequestRepo
	provider *mockRouteProvider
}

func makeDeps(opts ...func(*fixtures)) *handler.Dependencies {
	f := &fixtures{
		listings: &mockListingRepo{},
		users:    &mockUserRepo{},
		requests: &mockRequestRepo{},
		provider: &mockRouteProvider{},
	}
	for _, o := range opts {
		o(f)
	}

	listings := usecases.NewListingService(f.listings, nil)
	routes := usecases.NewRouteService(f.provider, nil)
	return &handler.Dependencies{
		Listings:          listings,
		Owners:            usecases.NewOwnerService(f.users, f.listings, nil),
		Trips:             usecases.NewTripService(f.requests),
		Routes:            routes,
		Proximity:         usecases.NewProximityService(listings, routes, usecases.NewViewportFitter()),
		Reviews:           usecases.NewReviewSynthesizer(0.2, 0.2, nil),
		MapsAPIKey:        "maps-key",
		RoutingConfigured: true,
	}
}

func loc(lat, lon float64) *domain.GeoPoint { return &domain.GeoPoint{Lat: lat, Lon: lon} }

func meters(m float64) *float64 { return &m }

func tractor(ctx context.Context, id string) (*domain.Listing, error) {
	if id != "tractor-1" {
		return nil, domain.ErrListingNotFound
	}
	return &domain.Listing{
		ID: id, OwnerID: "seller-1", Name: "Mahindra 575", Category: "Tractor",
		PricePerHour: 800, PriceUnit: "hour", Rating: 4.5, Location: loc(20.0, 73.78),
	}, nil
}

func eightKmRoute(ctx context.Context, o, d domain.GeoPoint) (*domain.Route, error) {
	return &domain.Route{
		Path:           []domain.GeoPoint{o, {Lat: 20.05, Lon: 73.75}, d},
		DistanceMeters: meters(8400),
	}, nil
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func decodeError(t *testing.T, body io.Reader) handler.APIError {
	t.Helper()
	var apiErr handler.APIError
	if err := json.Unmarshal(readBody(t, body), &apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return apiErr
}

// ---- Route handler tests ----

func TestRoute_Success(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) { f.provider.directionsFn = eightKmRoute }))

	req := httptest.NewRequest("GET", "/v1/routes?from_lat=20.1&from_lon=73.7&to_lat=20.0&to_lon=73.78", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var route domain.Route
	if err := json.NewDecoder(resp.Body).Decode(&route); err != nil {
		t.Fatal(err)
	}
	if len(route.Path) != 3 {
		t.Errorf("expected 3 path points, got %d", len(route.Path))
	}
	if route.DistanceMeters == nil || *route.DistanceMeters != 8400 {
		t.Errorf("expected 8400 m, got %v", route.DistanceMeters)
	}
	if route.Path[0] != (domain.GeoPoint{Lat: 20.1, Lon: 73.7}) {
		t.Errorf("expected path to start at origin, got %+v", route.Path[0])
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected no-store, got %q", cc)
	}
}

func TestRoute_BadCoordinates(t *testing.T) {
	app := setupApp(makeDeps())

	for _, q := range []string{
		"",
		"from_lat=abc&from_lon=73.7&to_lat=20&to_lon=73",
		"from_lat=95&from_lon=73.7&to_lat=20&to_lon=73",
	} {
		resp, _ := app.Test(httptest.NewRequest("GET", "/v1/routes?"+q, nil), -1)
		if resp.StatusCode != 400 {
			t.Errorf("%q: expected 400, got %d", q, resp.StatusCode)
		}
	}
}

func TestRoute_ProviderErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNoRouteFound, 404, "no_route_found"},
		{&domain.TransportError{Status: 502, StatusText: "Bad Gateway"}, 502, "transport_error"},
		{domain.ErrInvalidResponse, 502, "invalid_response"},
		{domain.ErrMissingCredential, 503, "missing_credential"},
		{errors.New("boom"), 500, "internal_error"},
	}
	for _, tc := range cases {
		app := setupApp(makeDeps(func(f *fixtures) {
			f.provider.directionsFn = func(ctx context.Context, o, d domain.GeoPoint) (*domain.Route, error) {
				return nil, tc.err
			}
		}))
		req := httptest.NewRequest("GET", "/v1/routes?from_lat=20.1&from_lon=73.7&to_lat=20.0&to_lon=73.78", nil)
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != tc.status {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.status, resp.StatusCode)
			continue
		}
		if apiErr := decodeError(t, resp.Body); apiErr.Code != tc.code {
			t.Errorf("%v: expected code %s, got %s", tc.err, tc.code, apiErr.Code)
		}
	}
}

// ---- Listing handler tests ----

func TestGetListing_Success(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) { f.listings.getByIDFn = tractor }))

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/listings/tractor-1", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var l domain.Listing
	json.NewDecoder(resp.Body).Decode(&l)
	if l.Name != "Mahindra 575" {
		t.Errorf("expected Mahindra 575, got %s", l.Name)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("expected listing cache header, got %q", cc)
	}
	if resp.Header.Get("ETag") == "" {
		t.Error("expected ETag on cacheable response")
	}
}

func TestGetListing_NotFound(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) { f.listings.getByIDFn = tractor }))

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/listings/missing", nil), -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if apiErr := decodeError(t, resp.Body); apiErr.Code != "not_found" {
		t.Errorf("expected not_found, got %s", apiErr.Code)
	}
}

func TestNearbyListings_Success(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) {
		f.listings.listWithinFn = func(ctx context.Context, box domain.Bounds, limit int) ([]domain.Listing, error) {
			return []domain.Listing{
				{ID: "far", Name: "Harvester", Location: loc(20.05, 73.80)},
				{ID: "near", Name: "Rotavator", Location: loc(20.01, 73.78)},
			}, nil
		}
	}))

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/listings/nearby?lat=20.0&lon=73.78&radius=10000", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result []domain.NearbyListing
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(result))
	}
	if result[0].ID != "near" {
		t.Errorf("expected closest listing first, got %s", result[0].ID)
	}
	if result[0].DistanceLabel != "1.1 km" {
		t.Errorf("expected 1.1 km, got %s", result[0].DistanceLabel)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=60" {
		t.Errorf("expected nearby cache header, got %q", cc)
	}
}

func TestNearbyListings_BadParams(t *testing.T) {
	app := setupApp(makeDeps())

	for _, q := range []string{"", "lat=20&lon=73.78&radius=500000", "lat=20&lon=190"} {
		resp, _ := app.Test(httptest.NewRequest("GET", "/v1/listings/nearby?"+q, nil), -1)
		if resp.StatusCode != 400 {
			t.Errorf("%q: expected 400, got %d", q, resp.StatusCode)
		}
	}
}

// ---- Proximity handler tests ----

func TestListingProximity_Known(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) {
		f.listings.getByIDFn = tractor
		f.provider.directionsFn = eightKmRoute
	}))

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/listings/tractor-1/proximity?lat=20.1&lon=73.7", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var view domain.ProximityView
	json.NewDecoder(resp.Body).Decode(&view)
	if view.Status != domain.ProximityKnown {
		t.Errorf("expected known, got %s", view.Status)
	}
	if view.DistanceLabel != "8.4 km away" {
		t.Errorf("expected 8.4 km away, got %q", view.DistanceLabel)
	}
	if view.Viewport == nil {
		t.Fatal("expected a fitted viewport")
	}
	if view.Viewport.Padding != domain.DefaultPadding {
		t.Errorf("expected default padding, got %+v", view.Viewport.Padding)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "private, no-store" {
		t.Errorf("expected private, no-store, got %q", cc)
	}
	if resp.Header.Get("ETag") != "" {
		t.Error("expected no ETag on no-store response")
	}
}

func TestListingProximity_GeolocationDenied(t *testing.T) {
	calls := 0
	app := setupApp(makeDeps(func(f *fixtures) {
		f.listings.getByIDFn = tractor
		f.provider.directionsFn = func(ctx context.Context, o, d domain.GeoPoint) (*domain.Route, error) {
			calls++
			return eightKmRoute(ctx, o, d)
		}
	}))

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/listings/tractor-1/proximity?geo_error=permission_denied", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var view domain.ProximityView
	json.NewDecoder(resp.Body).Decode(&view)
	if view.Status != domain.ProximityUnavailable || view.Reason != "permission_denied" {
		t.Errorf("expected unavailable/permission_denied, got %s/%s", view.Status, view.Reason)
	}
	if view.DistanceLabel != "Calculating on-road distance..." {
		t.Errorf("expected calculating label, got %q", view.DistanceLabel)
	}
	if calls != 0 {
		t.Errorf("expected no routing call, got %d", calls)
	}
}

func TestListingProximity_RoutingFailureStill200(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) {
		f.listings.getByIDFn = tractor
		f.provider.directionsFn = func(ctx context.Context, o, d domain.GeoPoint) (*domain.Route, error) {
			return nil, domain.ErrMissingCredential
		}
	}))

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/listings/tractor-1/proximity?lat=20.1&lon=73.7", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var view domain.ProximityView
	json.NewDecoder(resp.Body).Decode(&view)
	if view.Reason != "missing_credential" {
		t.Errorf("expected missing_credential, got %s", view.Reason)
	}
	if view.Origin == nil || view.Center != *view.Origin {
		t.Errorf("expected map centered on the renter, got %+v", view.Center)
	}
}

func TestListingProximity_BadParams(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) { f.listings.getByIDFn = tractor }))

	for _, q := range []string{"geo_error=bogus", "lat=abc&lon=73", "lat=20&lon=500"} {
		resp, _ := app.Test(httptest.NewRequest("GET", "/v1/listings/tractor-1/proximity?"+q, nil), -1)
		if resp.StatusCode != 400 {
			t.Errorf("%q: expected 400, got %d", q, resp.StatusCode)
		}
	}
}

// ---- Reviews handler tests ----

func TestListingReviews_SeededIsReproducible(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) { f.listings.getByIDFn = tractor }))

	fetch := func() handler.ReviewFeed {
		resp, _ := app.Test(httptest.NewRequest("GET", "/v1/listings/tractor-1/reviews?seed=42&count=8", nil), -1)
		if resp.StatusCode != 200 {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var feed handler.ReviewFeed
		json.NewDecoder(resp.Body).Decode(&feed)
		return feed
	}

	a, b := fetch(), fetch()
	if len(a.Reviews) != 8 {
		t.Fatalf("expected 8 reviews, got %d", len(a.Reviews))
	}
	for i := range a.Reviews {
		if a.Reviews[i] != b.Reviews[i] {
			t.Fatalf("review %d differs between seeded requests: %+v vs %+v", i, a.Reviews[i], b.Reviews[i])
		}
		if a.Reviews[i].ID != i {
			t.Errorf("expected id %d, got %d", i, a.Reviews[i].ID)
		}
		if r := a.Reviews[i].Rating; r < 3 || r > 5 {
			t.Errorf("rating %d outside 3..5", r)
		}
	}
	if a.AverageRating != 4.5 {
		t.Errorf("expected average 4.5, got %v", a.AverageRating)
	}
}

func TestListingReviews_RandomCount(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) { f.listings.getByIDFn = tractor }))

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/listings/tractor-1/reviews", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var feed handler.ReviewFeed
	json.NewDecoder(resp.Body).Decode(&feed)
	if n := len(feed.Reviews); n < usecases.MinReviewCount || n > usecases.MaxReviewCount {
		t.Errorf("expected %d..%d reviews, got %d", usecases.MinReviewCount, usecases.MaxReviewCount, n)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected no-store, got %q", cc)
	}
}

func TestListingReviews_BadSeed(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) { f.listings.getByIDFn = tractor }))

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/listings/tractor-1/reviews?seed=x", nil), -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Owner handler tests ----

func TestOwnerProfile_Success(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) {
		f.users.getByIDFn = func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, FullName: "Ramesh Patil"}, nil
		}
		f.listings.listByOwnerFn = func(ctx context.Context, ownerID string) ([]domain.Listing, error) {
			return []domain.Listing{{ID: "l1", OwnerID: ownerID, Location: loc(20.2, 73.9)}}, nil
		}
	}))

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/owners/seller-1", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var p domain.OwnerProfile
	json.NewDecoder(resp.Body).Decode(&p)
	if p.Owner.FullName != "Ramesh Patil" {
		t.Errorf("expected Ramesh Patil, got %s", p.Owner.FullName)
	}
	if p.MapCenter != (domain.GeoPoint{Lat: 20.2, Lon: 73.9}) {
		t.Errorf("expected map centered on first listing, got %+v", p.MapCenter)
	}
}

func TestOwnerProfile_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/owners/nobody", nil), -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func tripHistory(ctx context.Context, requesterID string) ([]domain.TripRecord, error) {
	out := make([]domain.TripRecord, 0, 10)
	for i := 1; i <= 10; i++ {
		owner := "seller-2"
		if i%3 == 0 {
			owner = "seller-1"
		}
		out = append(out, domain.TripRecord{
			ID: fmt.Sprintf("req-%d", i), RequesterID: requesterID,
			ListingID: fmt.Sprintf("l-%d", i), ListingOwnerID: owner, TotalPrice: 1200,
		})
	}
	return out, nil
}

func TestOwnerTrips_Paginated(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) { f.requests.listFn = tripHistory }))

	req := httptest.NewRequest("GET", "/v1/owners/seller-2/trips?offset=0&limit=3", nil)
	req.Header.Set("X-User-ID", "renter-1")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.TripRecord `json:"data"`
		Pagination handler.Pagination  `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 7 {
		t.Errorf("expected 7 trips with seller-2, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 3 || result.Data[0].ID != "req-1" || result.Data[2].ID != "req-4" {
		t.Errorf("unexpected first page: %+v", result.Data)
	}
	if result.Data[0].TotalPriceLabel != "₹1,200" {
		t.Errorf("expected ₹1,200, got %s", result.Data[0].TotalPriceLabel)
	}

	link := resp.Header.Get("Link")
	for _, rel := range []string{`rel="first"`, `rel="next"`, `rel="last"`} {
		if !strings.Contains(link, rel) {
			t.Errorf("expected %s in Link header, got %s", rel, link)
		}
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "private, no-store" {
		t.Errorf("expected private, no-store, got %q", cc)
	}
}

func TestOwnerTrips_Anonymous(t *testing.T) {
	called := false
	app := setupApp(makeDeps(func(f *fixtures) {
		f.requests.listFn = func(ctx context.Context, requesterID string) ([]domain.TripRecord, error) {
			called = true
			return nil, nil
		}
	}))

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/owners/seller-1/trips", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Data []domain.TripRecord `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Data) != 0 {
		t.Errorf("expected no trips, got %d", len(result.Data))
	}
	if called {
		t.Error("expected no lookup for anonymous caller")
	}
}

// ---- Misc ----

func TestMapsConfig(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/config/maps", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var cfg struct {
		APIKey        string          `json:"api_key"`
		Configured    bool            `json:"configured"`
		DefaultCenter domain.GeoPoint `json:"default_center"`
	}
	json.NewDecoder(resp.Body).Decode(&cfg)
	if cfg.APIKey != "maps-key" || !cfg.Configured {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.DefaultCenter != domain.DefaultMapCenter {
		t.Errorf("expected default center, got %+v", cfg.DefaultCenter)
	}
}

func TestGraphQL_Proximity(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) {
		f.listings.getByIDFn = tractor
		f.provider.directionsFn = eightKmRoute
	}))

	body, _ := json.Marshal(map[string]string{
		"query": `{ proximity(listing_id: "tractor-1", lat: 20.1, lon: 73.7) { status distance_label viewport { bounds { min_lat max_lon } } } }`,
	})
	req := httptest.NewRequest("POST", "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Proximity struct {
				Status        string `json:"status"`
				DistanceLabel string `json:"distance_label"`
				Viewport      struct {
					Bounds domain.Bounds `json:"bounds"`
				} `json:"viewport"`
			} `json:"proximity"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Data.Proximity.Status != "known" || result.Data.Proximity.DistanceLabel != "8.4 km away" {
		t.Errorf("unexpected proximity: %+v", result.Data.Proximity)
	}
	if result.Data.Proximity.Viewport.Bounds.MinLat != 20.0 || result.Data.Proximity.Viewport.Bounds.MaxLon != 73.78 {
		t.Errorf("unexpected bounds: %+v", result.Data.Proximity.Viewport.Bounds)
	}
}

func TestGraphQL_NearbyListings(t *testing.T) {
	app := setupApp(makeDeps(func(f *fixtures) {
		f.listings.listWithinFn = func(ctx context.Context, box domain.Bounds, limit int) ([]domain.Listing, error) {
			return []domain.Listing{{ID: "near", Name: "Rotavator", Location: loc(20.01, 73.78)}}, nil
		}
	}))

	body, _ := json.Marshal(map[string]string{
		"query": `{ nearbyListings(lat: 20.0, lon: 73.78) { listing { id name } distance_label } }`,
	})
	req := httptest.NewRequest("POST", "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)

	var result struct {
		Data struct {
			NearbyListings []struct {
				Listing struct {
					ID string `json:"id"`
				} `json:"listing"`
				DistanceLabel string `json:"distance_label"`
			} `json:"nearbyListings"`
		} `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Data.NearbyListings) != 1 || result.Data.NearbyListings[0].Listing.ID != "near" {
		t.Fatalf("unexpected result: %+v", result.Data)
	}
}

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/health", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", result["status"])
	}
}

func TestReady_NoDB(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	var result struct {
		Checks map[string]string `json:"checks"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Checks["routing"] != "ok" {
		t.Errorf("expected routing ok, got %q", result.Checks["routing"])
	}
}

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/health", nil), -1)
	if v := resp.Header.Get("X-API-Version"); v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

// TestAccessLogMiddleware verifies structured access logging does not
// disturb the response.
func TestAccessLogMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(handler.AccessLogMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "test-req-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp.Body); !strings.Contains(string(body), "ok") {
		t.Errorf("expected response body to contain 'ok', got %s", string(body))
	}
}
