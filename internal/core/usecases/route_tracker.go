package usecases

import (
	"sync"

	"github.com/samirrijal/agroshare/internal/pkg/metrics"
)

// RouteTracker applies last-writer-wins to route requests that cannot be
// cancelled. Every request takes a token from Issue; a finished request may
// only publish its result through Commit while its token is the newest.
type RouteTracker[T any] struct {
	mu      sync.Mutex
	latest  uint64
	applied uint64
	current T
}

// Issue returns a new, strictly increasing token.
func (t *RouteTracker[T]) Issue() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest++
	return t.latest
}

// Commit stores v if token is still the latest issued, and reports whether
// it did. Stale results are dropped.
func (t *RouteTracker[T]) Commit(token uint64, v T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if token != t.latest {
		metrics.StaleRoutesDropped.Inc()
		return false
	}
	t.applied = token
	t.current = v
	return true
}

// Current returns the last committed value and its token (0 if none).
func (t *RouteTracker[T]) Current() (T, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.applied
}
