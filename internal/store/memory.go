package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/hourly-weather/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = errors.New("no weather data for location")
)

// MemoryStore is a concurrency-safe in-memory implementation of a weather store.
// It keeps only the latest snapshot per location; a new snapshot replaces the
// previous one.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key
	data map[string]weather.Snapshot

	maxAge time.Duration // snapshots older than this read as missing (0 = unlimited)
	now    func() time.Time
}

// NewMemoryStore creates a new MemoryStore.
// If maxAge is <= 0, snapshots never expire.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]weather.Snapshot),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// SaveSnapshot replaces the snapshot for the snapshot's location.
func (s *MemoryStore) SaveSnapshot(_ context.Context, snapshot weather.Snapshot) error {
	key := snapshot.Location.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = snapshot
	return nil
}

// GetLatest returns the most recent snapshot for a location.
func (s *MemoryStore) GetLatest(_ context.Context, loc weather.Location) (weather.Snapshot, error) {
	key := loc.Key()

	s.mu.RLock()
	snap, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return weather.Snapshot{}, ErrNotFound
	}
	if s.maxAge > 0 && s.now().Sub(snap.FetchedAt) > s.maxAge {
		return weather.Snapshot{}, ErrNotFound
	}
	return snap, nil
}

var _ weather.Store = (*MemoryStore)(nil)
