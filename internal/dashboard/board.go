package dashboard

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/i474232898/hourly-weather/internal/weather"
)

// LoadingMessage replaces the current-conditions area while a fetch is running.
const LoadingMessage = "Loading..."

var (
	// ErrNoSelection is returned by Refresh before any location was selected.
	ErrNoSelection = errors.New("no location selected")

	// ErrSuperseded is returned when a newer trigger finished or started
	// while this fetch was in flight; its result was discarded.
	ErrSuperseded = errors.New("fetch superseded by a newer request")
)

// Fetcher is the part of weather.Service the board depends on.
type Fetcher interface {
	Location(key string) (weather.Location, error)
	Fetch(ctx context.Context, loc weather.Location) (weather.Snapshot, error)
	Render(snap weather.Snapshot) weather.View
}

// State is a copy of what the board currently displays.
type State struct {
	Sequence uint64        `json:"sequence"`
	Selected string        `json:"selected"`
	Loading  bool          `json:"loading"`
	Status   string        `json:"status,omitempty"`
	View     *weather.View `json:"view,omitempty"`
	ChartID  string        `json:"chartId,omitempty"`
}

// Board is the dashboard's presentation state. Every trigger (initial load,
// location change, refresh) gets a sequence number; a fetch only updates the
// board if it is still the latest trigger for the selected location when it
// completes.
type Board struct {
	fetcher Fetcher
	charts  ChartRenderer
	logger  *zap.SugaredLogger

	mu       sync.Mutex
	seq      uint64
	selected string
	loading  bool
	status   string
	view     *weather.View
	chart    Chart
}

// NewBoard creates an empty board.
func NewBoard(fetcher Fetcher, charts ChartRenderer, logger *zap.SugaredLogger) *Board {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Board{
		fetcher: fetcher,
		charts:  charts,
		logger:  logger,
	}
}

// Select switches to the preset key and fetches it.
func (b *Board) Select(ctx context.Context, key string) (State, error) {
	return b.trigger(ctx, key)
}

// Refresh refetches the selected location.
func (b *Board) Refresh(ctx context.Context) (State, error) {
	b.mu.Lock()
	key := b.selected
	b.mu.Unlock()

	if key == "" {
		return b.State(), ErrNoSelection
	}
	return b.trigger(ctx, key)
}

func (b *Board) trigger(ctx context.Context, key string) (State, error) {
	loc, err := b.fetcher.Location(key)
	if err != nil {
		return b.State(), err
	}

	b.mu.Lock()
	b.seq++
	tag := b.seq
	b.selected = key
	b.loading = true
	b.status = LoadingMessage
	b.mu.Unlock()

	b.logger.Debugw("fetch started", "location", key, "sequence", tag)
	snap, fetchErr := b.fetcher.Fetch(ctx, loc)

	if !b.complete(tag, key, snap, fetchErr) {
		b.logger.Infow("discarding stale fetch", "location", key, "sequence", tag)
		return b.State(), ErrSuperseded
	}
	return b.State(), fetchErr
}

// complete applies a finished fetch. It returns false when the fetch is stale.
func (b *Board) complete(tag uint64, key string, snap weather.Snapshot, fetchErr error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if tag != b.seq || key != b.selected {
		return false
	}
	b.loading = false

	if fetchErr != nil {
		// Table and chart stay as they were; only the status changes.
		b.status = weather.Describe(fetchErr)
		b.logger.Warnw("fetch failed", "location", key, "sequence", tag, "error", fetchErr)
		return true
	}

	view := b.fetcher.Render(snap)
	b.replaceChart(view)
	b.view = &view
	b.status = ""
	return true
}

// replaceChart releases the current chart before drawing the next one, so at
// most one chart is alive. Callers hold b.mu.
func (b *Board) replaceChart(view weather.View) {
	if b.chart != nil {
		b.chart.Release()
		b.chart = nil
	}
	if b.charts == nil || view.Table.NoData {
		return
	}
	chart, err := b.charts.Draw(view.Chart)
	if err != nil {
		b.logger.Errorw("failed to draw chart", "location", view.Location.Key(), "error", err)
		return
	}
	b.chart = chart
}

// State returns a snapshot of the board.
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := State{
		Sequence: b.seq,
		Selected: b.selected,
		Loading:  b.loading,
		Status:   b.status,
	}
	if b.view != nil {
		v := *b.view
		st.View = &v
	}
	if b.chart != nil {
		st.ChartID = b.chart.ID()
	}
	return st
}

// Close releases the chart resource.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.chart != nil {
		b.chart.Release()
		b.chart = nil
	}
}
