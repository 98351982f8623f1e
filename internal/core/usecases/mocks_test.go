package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/agroshare/internal/core/domain"
)

// --- Mock ListingRepository ---

type mockListingRepo struct {
	getByIDFn     func(ctx context.Context, id string) (*domain.Listing, error)
	listByOwnerFn func(ctx context.Context, ownerID string) ([]domain.Listing, error)
	listWithinFn  func(ctx context.Context, box domain.Bounds, limit int) ([]domain.Listing, error)
	getCalls      int
}

func (m *mockListingRepo) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	m.getCalls++
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

// --- Mock UserRepository ---

type mockUserRepo struct {
	getByIDFn func(ctx context.Context, id string) (*domain.User, error)
	calls     int
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.calls++
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

// --- Mock RentalRequestRepository ---

type mockRequestRepo struct {
	listFn func(ctx context.Context, requesterID string) ([]domain.TripRecord, error)
	calls  int
}

func (m *mockRequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]domain.TripRecord, error) {
	m.calls++
	if m.listFn != nil {
		return m.listFn(ctx, requesterID)
	}
	return nil, nil
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func point(lat, lon float64) *domain.GeoPoint {
	return &domain.GeoPoint{Lat: lat, Lon: lon}
}
