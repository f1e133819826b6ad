package weather

import (
	"context"
)

// Provider abstracts the hourly forecast source (Open-Meteo).
// Fetch returns a TransportError when the provider cannot be reached or
// answers with a non-success status, and ErrEmptySeries when it has no
// hourly entries.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (Snapshot, error)
}

// Store keeps the latest snapshot per location.
type Store interface {
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	GetLatest(ctx context.Context, loc Location) (Snapshot, error)
}
