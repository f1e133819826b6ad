package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Options configures how the Service renders windows.
type Options struct {
	// Timezone is the fixed civil timezone "now" is resolved in.
	Timezone *time.Location
	// WindowHours caps the window length; <= 0 means WindowHours.
	WindowHours int
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Service fetches snapshots from the provider, keeps the latest one per
// location in the store and renders views.
type Service struct {
	store    Store
	provider Provider
	presets  Presets
	opts     Options
	logger   *zap.SugaredLogger
}

// NewService creates a new Service.
func NewService(store Store, provider Provider, presets Presets, opts Options, logger *zap.SugaredLogger) *Service {
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}
	if opts.WindowHours <= 0 {
		opts.WindowHours = WindowHours
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		store:    store,
		provider: provider,
		presets:  presets,
		opts:     opts,
		logger:   logger,
	}
}

// Presets returns the location table.
func (s *Service) Presets() Presets {
	return s.presets
}

// Location resolves a preset key.
func (s *Service) Location(key string) (Location, error) {
	loc, ok := s.presets.Lookup(key)
	if !ok {
		return Location{}, fmt.Errorf("%w: %q", ErrUnknownLocation, key)
	}
	return loc, nil
}

// Fetch retrieves a fresh snapshot for loc and records it in the store.
// A store failure is logged but does not fail the fetch.
func (s *Service) Fetch(ctx context.Context, loc Location) (Snapshot, error) {
	if s.provider == nil {
		return Snapshot{}, fmt.Errorf("no weather provider configured")
	}

	snap, err := s.provider.Fetch(ctx, loc)
	if err != nil {
		s.logger.Warnw("provider fetch failed", "provider", s.provider.Name(), "location", loc.Key(), "error", err)
		return Snapshot{}, err
	}
	if snap.Hourly.Len() == 0 {
		s.logger.Warnw("provider returned empty hourly series", "provider", s.provider.Name(), "location", loc.Key())
		return Snapshot{}, ErrEmptySeries
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = s.opts.Now().UTC()
	}

	if s.store != nil {
		if err := s.store.SaveSnapshot(ctx, snap); err != nil {
			s.logger.Warnw("failed to store snapshot", "location", loc.Key(), "error", err)
		}
	}
	s.logger.Debugw("fetched snapshot", "location", loc.Key(), "hours", snap.Hourly.Len())
	return snap, nil
}

// FetchAndStore refreshes the cached snapshot for loc. On failure the last
// good snapshot stays in the store.
func (s *Service) FetchAndStore(ctx context.Context, loc Location) error {
	_, err := s.Fetch(ctx, loc)
	return err
}

// Latest returns the cached snapshot for loc, fetching one on a cache miss.
// A snapshot fetched on an earlier civil day is a miss: the hourly series
// starts at midnight of the fetch day, so its hours no longer line up with now.
func (s *Service) Latest(ctx context.Context, loc Location) (Snapshot, error) {
	if s.store != nil {
		snap, err := s.store.GetLatest(ctx, loc)
		switch {
		case err != nil:
			s.logger.Debugw("cache miss", "location", loc.Key(), "error", err)
		case !s.sameDay(snap.FetchedAt, s.opts.Now()):
			s.logger.Debugw("cached snapshot is from another day", "location", loc.Key(), "fetchedAt", snap.FetchedAt)
		default:
			return snap, nil
		}
	}
	return s.Fetch(ctx, loc)
}

func (s *Service) sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(s.opts.Timezone).Date()
	by, bm, bd := b.In(s.opts.Timezone).Date()
	return ay == by && am == bm && ad == bd
}

// Window builds the forecast window of snap for the current instant.
func (s *Service) Window(snap Snapshot) ForecastWindow {
	return BuildWindow(snap.Hourly, s.opts.Now(), s.opts.Timezone, s.opts.WindowHours)
}

// Render builds the view of snap for the current instant.
func (s *Service) Render(snap Snapshot) View {
	return NewView(snap, s.Window(snap))
}

// Forecast resolves key, loads its latest snapshot and renders it.
func (s *Service) Forecast(ctx context.Context, key string) (View, error) {
	loc, err := s.Location(key)
	if err != nil {
		return View{}, err
	}
	snap, err := s.Latest(ctx, loc)
	if err != nil {
		return View{}, err
	}
	return s.Render(snap), nil
}

// Describe turns a fetch error into the message shown to the user. Transport
// details such as the request URL stay in the logs.
func Describe(err error) string {
	var te *TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "Error: weather provider timed out"
	case errors.Is(err, context.Canceled):
		return "Error: request cancelled"
	case errors.As(err, &te):
		if te.StatusCode != 0 {
			return fmt.Sprintf("Error: weather provider unavailable (%s, status %d)", te.Provider, te.StatusCode)
		}
		return "Error: weather provider unavailable (" + te.Provider + ")"
	case errors.Is(err, ErrEmptySeries):
		return "Error: " + NoDataMessage
	default:
		return "Error: " + err.Error()
	}
}
