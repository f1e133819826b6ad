package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu    sync.Mutex
	snap  Snapshot
	err   error
	calls int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Fetch(_ context.Context, loc Location) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return Snapshot{}, p.err
	}
	s := p.snap
	s.Location = loc
	return s, nil
}

type fakeStore struct {
	mu      sync.Mutex
	data    map[string]Snapshot
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]Snapshot{}}
}

func (s *fakeStore) SaveSnapshot(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[snap.Location.Key()] = snap
	return nil
}

func (s *fakeStore) GetLatest(_ context.Context, loc Location) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.data[loc.Key()]
	if !ok {
		return Snapshot{}, errors.New("not found")
	}
	return snap, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(t *testing.T, store Store, provider Provider) *Service {
	t.Helper()
	return NewService(store, provider, DefaultPresets(), Options{
		Timezone: time.UTC,
		Now:      fixedClock(time.Date(2024, 6, 1, 2, 30, 0, 0, time.UTC)),
	}, nil)
}

func TestService_FetchStoresSnapshot(t *testing.T) {
	provider := &fakeProvider{snap: Snapshot{
		Hourly: mustBundle(t, hourlyTimes(0, 5), map[Parameter][]Reading{Temperature: values(1, 2, 3, 4, 5)}),
	}}
	store := newFakeStore()
	svc := newTestService(t, store, provider)
	loc := DefaultPresets()["almassora"]

	snap, err := svc.Fetch(context.Background(), loc)
	require.NoError(t, err)

	assert.Equal(t, loc, snap.Location)
	assert.Equal(t, time.Date(2024, 6, 1, 2, 30, 0, 0, time.UTC), snap.FetchedAt)
	stored, err := store.GetLatest(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, snap.Hourly.Times(), stored.Hourly.Times())
}

func TestService_FetchEmptySeries(t *testing.T) {
	provider := &fakeProvider{snap: Snapshot{Hourly: mustBundle(t, nil, nil)}}
	store := newFakeStore()
	svc := newTestService(t, store, provider)

	_, err := svc.Fetch(context.Background(), DefaultPresets()["castellon"])

	assert.ErrorIs(t, err, ErrEmptySeries)
	assert.Empty(t, store.data)
}

func TestService_StoreFailureDoesNotFailFetch(t *testing.T) {
	provider := &fakeProvider{snap: Snapshot{Hourly: mustBundle(t, hourlyTimes(0, 1), nil)}}
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	svc := newTestService(t, store, provider)

	_, err := svc.Fetch(context.Background(), DefaultPresets()["vinaros"])
	assert.NoError(t, err)
}

func TestService_LatestPrefersStore(t *testing.T) {
	provider := &fakeProvider{snap: Snapshot{Hourly: mustBundle(t, hourlyTimes(0, 2), nil)}}
	store := newFakeStore()
	svc := newTestService(t, store, provider)
	loc := DefaultPresets()["almassora"]

	_, err := svc.Latest(context.Background(), loc)
	require.NoError(t, err)
	_, err = svc.Latest(context.Background(), loc)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
}

func TestService_LatestRefetchesAfterMidnight(t *testing.T) {
	times := hourlyTimes(0, 48)
	temps := make([]Reading, 48)
	for i := range temps {
		temps[i] = Value(float64(i))
	}
	provider := &fakeProvider{snap: Snapshot{
		Hourly: mustBundle(t, times, map[Parameter][]Reading{Temperature: temps}),
	}}
	now := time.Date(2024, 6, 1, 23, 45, 0, 0, time.UTC)
	svc := NewService(newFakeStore(), provider, DefaultPresets(), Options{
		Timezone: time.UTC,
		Now:      func() time.Time { return now },
	}, nil)
	ctx := context.Background()

	_, err := svc.Forecast(ctx, "vinaros")
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls)

	// Same day: served from the store.
	now = time.Date(2024, 6, 1, 23, 55, 0, 0, time.UTC)
	_, err = svc.Forecast(ctx, "vinaros")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)

	// Next day: the series of the 1st no longer starts at the current hour.
	provider.snap.Hourly = mustBundle(t, hourlyTimes(24, 48), map[Parameter][]Reading{Temperature: temps})
	now = time.Date(2024, 6, 2, 0, 10, 0, 0, time.UTC)
	v, err := svc.Forecast(ctx, "vinaros")
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls)
	require.NotEmpty(t, v.Table.Rows)
	assert.Equal(t, "01:00", v.Table.Rows[0].Time)
	assert.Equal(t, "2024-06-02T01:00", provider.snap.Hourly.Times()[v.Window.Start])
}

func TestService_LatestComparesDaysInConfiguredZone(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	provider := &fakeProvider{snap: Snapshot{Hourly: mustBundle(t, hourlyTimes(0, 2), nil)}}
	store := newFakeStore()
	// 22:30 UTC on the 1st is already 00:30 on the 2nd in Madrid.
	now := time.Date(2024, 6, 1, 22, 30, 0, 0, time.UTC)
	svc := NewService(store, provider, DefaultPresets(), Options{
		Timezone: madrid,
		Now:      func() time.Time { return now },
	}, nil)
	loc := DefaultPresets()["almassora"]
	require.NoError(t, store.SaveSnapshot(context.Background(), Snapshot{
		Location:  loc,
		Hourly:    mustBundle(t, hourlyTimes(0, 2), nil),
		FetchedAt: time.Date(2024, 6, 1, 21, 50, 0, 0, time.UTC), // 23:50 in Madrid
	}))

	_, err = svc.Latest(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
}

func TestService_ForecastRendersWindow(t *testing.T) {
	temps := make([]Reading, 48)
	for i := range temps {
		temps[i] = Value(float64(i))
	}
	provider := &fakeProvider{snap: Snapshot{
		Hourly: mustBundle(t, hourlyTimes(0, 48), map[Parameter][]Reading{Temperature: temps}),
	}}
	svc := newTestService(t, newFakeStore(), provider)

	v, err := svc.Forecast(context.Background(), "vinaros")
	require.NoError(t, err)

	require.Len(t, v.Table.Rows, 24)
	assert.Equal(t, "03:00", v.Table.Rows[0].Time)
	assert.Equal(t, Value(3), v.Table.Rows[0].Temperature.Value)
	assert.True(t, v.Table.Rows[23].Temperature.Highlight)
	assert.Equal(t, "Vinaròs", v.Current.Location)
}

func TestService_ForecastUsesConfiguredWindowHours(t *testing.T) {
	provider := &fakeProvider{snap: Snapshot{Hourly: mustBundle(t, hourlyTimes(0, 48), nil)}}
	svc := NewService(newFakeStore(), provider, DefaultPresets(), Options{
		Timezone:    time.UTC,
		WindowHours: 6,
		Now:         fixedClock(time.Date(2024, 6, 1, 2, 30, 0, 0, time.UTC)),
	}, nil)

	v, err := svc.Forecast(context.Background(), "castellon")
	require.NoError(t, err)

	assert.Len(t, v.Table.Rows, 6)
	assert.Equal(t, "Temp 6h (Castellón de la Plana)", v.Chart.Title)
}

func TestService_ForecastUnknownLocation(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(t, newFakeStore(), provider)

	_, err := svc.Forecast(context.Background(), "madrid")

	assert.ErrorIs(t, err, ErrUnknownLocation)
	assert.Zero(t, provider.calls)
}

func TestService_FetchPropagatesTransportError(t *testing.T) {
	provider := &fakeProvider{err: &TransportError{Provider: "fake", StatusCode: 503, Err: errors.New("unavailable")}}
	svc := newTestService(t, newFakeStore(), provider)

	_, err := svc.Fetch(context.Background(), DefaultPresets()["almassora"])

	assert.True(t, IsTransport(err))
}

func TestDescribe(t *testing.T) {
	transport := &TransportError{Provider: "openmeteo", StatusCode: 500, Err: errors.New("boom")}

	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, "Error: weather provider unavailable (openmeteo, status 500)", Describe(transport))
	assert.Equal(t, "Error: weather provider unavailable (openmeteo, status 500)", Describe(fmt.Errorf("wrap: %w", transport)))
	assert.Equal(t, "Error: "+NoDataMessage, Describe(ErrEmptySeries))
	assert.Equal(t, "Error: request cancelled", Describe(context.Canceled))
	assert.Equal(t, "Error: weather provider timed out", Describe(context.DeadlineExceeded))
}

func TestDescribe_HidesTransportDetails(t *testing.T) {
	urlErr := fmt.Errorf(`Get "http://api.test/v1/forecast?latitude=40.471": %w`, context.DeadlineExceeded)
	timeout := &TransportError{Provider: "openmeteo", Err: urlErr}
	unreachable := &TransportError{Provider: "openmeteo", Err: errors.New(`Get "http://api.test/v1/forecast": dial tcp: connection refused`)}

	assert.Equal(t, "Error: weather provider timed out", Describe(timeout))
	assert.Equal(t, "Error: weather provider unavailable (openmeteo)", Describe(unreachable))
	assert.NotContains(t, Describe(unreachable), "http://")
	assert.Equal(t, "Error: other", Describe(errors.New("other")))
}
