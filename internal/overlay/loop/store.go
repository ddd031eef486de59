package loop

import (
	"sync"
	"time"

	"github.com/tripcast-io/tripcast/internal/overlay/render"
)

// Store holds the currently displayed visual update. The update loop is the
// sole writer; the HTTP API and overlay subscribers only read. Initialized
// empty at startup and replaced atomically as a whole on every render.
type Store struct {
	mu        sync.RWMutex
	current   render.VisualUpdate
	updatedAt time.Time
	ready     bool
}

// NewStore creates an empty store. Ready turns true after the first Set.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the displayed update.
func (s *Store) Set(u render.VisualUpdate, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = u
	s.updatedAt = at
	s.ready = true
}

// Snapshot returns the displayed update, its timestamp, and whether at least
// one render cycle has completed.
func (s *Store) Snapshot() (render.VisualUpdate, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.updatedAt, s.ready
}

// Ready reports whether at least one fetch->render cycle succeeded.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}
