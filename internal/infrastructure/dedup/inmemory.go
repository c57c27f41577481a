package dedup

import (
	"context"
	"sync"
)

// InMemoryRegistry implements Registry with a mutex-guarded set. This is
// the default for single-instance deployments: entries live for the
// process lifetime with no eviction. Notification ids are small and a
// session is bounded by login duration, so the set stays manageable.
type InMemoryRegistry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewInMemoryRegistry creates an empty in-memory registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		seen: make(map[string]struct{}),
	}
}

// ShouldAlert records the id and returns true on first sight, false on
// every subsequent call with the same id.
func (r *InMemoryRegistry) ShouldAlert(_ context.Context, notificationID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[notificationID]; ok {
		return false, nil
	}
	r.seen[notificationID] = struct{}{}
	return true, nil
}

// Seen reports whether the id has already been recorded.
func (r *InMemoryRegistry) Seen(_ context.Context, notificationID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.seen[notificationID]
	return ok, nil
}

// Close is a no-op for the in-memory registry.
func (r *InMemoryRegistry) Close() error {
	return nil
}

// Size returns the number of recorded ids (for testing/monitoring).
func (r *InMemoryRegistry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

// Ensure InMemoryRegistry implements Registry
var _ Registry = (*InMemoryRegistry)(nil)
